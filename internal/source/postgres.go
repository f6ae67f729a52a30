package source

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tommcrojo/security-log-analytics/internal/models"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// PostgresSource reads access logs for a window directly from the database.
// Fetches are paginated and rate limited so a large month does not hammer a
// shared instance with one unbounded query burst.
type PostgresSource struct {
	db       *gorm.DB
	pageSize int
	limiter  *rate.Limiter
	log      *logrus.Entry
}

func NewPostgresSource(logger *logrus.Logger, db *gorm.DB, pageSize int, pagesPerSecond float64) *PostgresSource {
	if pageSize <= 0 {
		pageSize = 5000
	}
	if pagesPerSecond <= 0 {
		pagesPerSecond = 5
	}
	return &PostgresSource{
		db:       db,
		pageSize: pageSize,
		limiter:  rate.NewLimiter(rate.Limit(pagesPerSecond), 1),
		log:      logger.WithField("component", "postgres_source"),
	}
}

func (s *PostgresSource) Fetch(ctx context.Context, start, end time.Time) ([]models.AccessLog, error) {
	log := s.log.WithFields(logrus.Fields{
		"window_start": start.Format(time.RFC3339),
		"window_end":   end.Format(time.RFC3339),
	})

	var records []models.AccessLog
	for offset := 0; ; offset += s.pageSize {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("fetch cancelled: %w", err)
		}

		var page []models.AccessLog
		err := s.db.WithContext(ctx).
			Where("timestamp >= ? AND timestamp < ?", start, end).
			Order("timestamp ASC, id ASC").
			Limit(s.pageSize).
			Offset(offset).
			Find(&page).Error
		if err != nil {
			log.WithError(err).Error("Access log query failed")
			return nil, fmt.Errorf("access log query failed: %w", err)
		}

		records = append(records, page...)
		if len(page) < s.pageSize {
			break
		}
	}

	log.WithField("count", len(records)).Info("Fetched access logs")
	return records, nil
}
