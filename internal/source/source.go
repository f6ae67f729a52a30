package source

import (
	"context"
	"time"

	"github.com/tommcrojo/security-log-analytics/internal/models"
)

// Source supplies the access-log records for a reporting window. An empty
// slice with a nil error means the window legitimately holds no traffic; any
// error is a fetch failure and aborts the run.
type Source interface {
	Fetch(ctx context.Context, start, end time.Time) ([]models.AccessLog, error)
}
