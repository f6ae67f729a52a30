package mailer

import (
	"context"
)

// Sink delivers a rendered report document to a recipient. Failures are
// reported to the caller but never take down a run whose metrics were already
// computed.
type Sink interface {
	Send(ctx context.Context, document, recipient, subject string) error
}
