package mailer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileMailer writes the report to a local file instead of sending it, used in
// mock mode where no delivery credentials are available.
type FileMailer struct {
	dir string
	log *logrus.Entry
}

func NewFileMailer(logger *logrus.Logger, dir string) *FileMailer {
	return &FileMailer{
		dir: dir,
		log: logger.WithField("component", "file_mailer"),
	}
}

func (m *FileMailer) Send(ctx context.Context, document, recipient, subject string) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(m.dir, "generated_report.html")
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	m.log.WithFields(logrus.Fields{
		"path":    path,
		"subject": subject,
	}).Info("Report saved locally")
	return nil
}
