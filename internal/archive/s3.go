package archive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/sirupsen/logrus"
	"github.com/tommcrojo/security-log-analytics/internal/config"
	"github.com/tommcrojo/security-log-analytics/internal/models"
	"github.com/tommcrojo/security-log-analytics/internal/report"
	"gorm.io/gorm"
)

// S3Archive keeps a copy of every delivered report: the document goes to S3
// and a row in report_archive records the run.
type S3Archive struct {
	uploader *s3manager.Uploader
	bucket   string
	db       *gorm.DB
	log      *logrus.Entry
}

func NewS3Archive(logger *logrus.Logger, cfg *config.Config, db *gorm.DB) *S3Archive {
	sess := session.Must(session.NewSession(&aws.Config{
		Region:      aws.String(cfg.AWSRegion),
		Credentials: credentials.NewStaticCredentials(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
	}))

	return &S3Archive{
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.ArchiveBucket,
		db:       db,
		log:      logger.WithField("component", "report_archive"),
	}
}

func (a *S3Archive) Store(ctx context.Context, windowStart time.Time, m *report.Metrics, document string) error {
	key := fmt.Sprintf("reports/%s.html", windowStart.Format("2006-01"))

	_, err := a.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(document),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("s3 upload failed: %w", err)
	}

	entry := models.ReportArchive{
		Period:      m.ReportPeriod,
		Key:         key,
		SizeBytes:   int64(len(document)),
		GeneratedAt: m.GeneratedAt,
		StoredAt:    time.Now(),
	}
	if err := a.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to save archive entry: %w", err)
	}

	a.log.WithFields(logrus.Fields{
		"key":   key,
		"bytes": entry.SizeBytes,
	}).Info("Report archived")
	return nil
}
