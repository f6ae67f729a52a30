package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/sirupsen/logrus"
	"github.com/tommcrojo/security-log-analytics/internal/config"
)

type SESMailer struct {
	client *ses.SES
	sender string
	log    *logrus.Entry
}

func NewSESMailer(logger *logrus.Logger, cfg *config.Config) *SESMailer {
	sess := session.Must(session.NewSession(&aws.Config{
		Region:      aws.String(cfg.AWSRegion),
		Credentials: credentials.NewStaticCredentials(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
	}))

	return &SESMailer{
		client: ses.New(sess),
		sender: cfg.SenderAddress,
		log:    logger.WithField("component", "ses_mailer"),
	}
}

func (m *SESMailer) Send(ctx context.Context, document, recipient, subject string) error {
	log := m.log.WithFields(logrus.Fields{
		"recipient": recipient,
		"subject":   subject,
	})

	_, err := m.client.SendEmailWithContext(ctx, &ses.SendEmailInput{
		Source: aws.String(m.sender),
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(recipient)},
		},
		Message: &ses.Message{
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &ses.Body{
				Html: &ses.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(document),
				},
			},
		},
	})
	if err != nil {
		log.WithError(err).Error("Email send failed")
		return fmt.Errorf("email send failed: %w", err)
	}

	log.Info("Report dispatched")
	return nil
}
