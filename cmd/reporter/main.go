package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tommcrojo/security-log-analytics/internal/archive"
	"github.com/tommcrojo/security-log-analytics/internal/config"
	"github.com/tommcrojo/security-log-analytics/internal/database"
	"github.com/tommcrojo/security-log-analytics/internal/mailer"
	"github.com/tommcrojo/security-log-analytics/internal/pipeline"
	"github.com/tommcrojo/security-log-analytics/internal/report"
	"github.com/tommcrojo/security-log-analytics/internal/source"
	"github.com/tommcrojo/security-log-analytics/internal/telemetry"
)

func main() {
	useMock := flag.Bool("use-mock-data", false, "read records from a local CSV file instead of Postgres")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()

	renderer, err := report.NewRenderer()
	if err != nil {
		logger.WithError(err).Fatal("Failed to build renderer")
	}

	var p *pipeline.Pipeline
	if *useMock {
		src := source.NewCSVSource(logger, cfg.MockDataPath)
		sink := mailer.NewFileMailer(logger, cfg.OutputDir)
		p = pipeline.New(logger, src, renderer, sink, cfg.AdminEmail)
	} else {
		if err := cfg.ValidateLive(); err != nil {
			logger.WithError(err).Fatal("Invalid configuration")
		}

		db, err := database.NewPostgresDB(logger, database.PostgresConfig{
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPassword,
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			DBName:   cfg.PostgresDatabase,
			SSLMode:  cfg.PostgresSSLMode,
		})
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to database")
		}

		src := source.NewPostgresSource(logger, db, cfg.FetchPageSize, cfg.FetchPageRate)
		sink := mailer.NewSESMailer(logger, cfg)

		p = pipeline.New(logger, src, renderer, sink, cfg.AdminEmail).
			WithTelemetry(telemetry.NewJobMetrics(cfg.PushgatewayURL))
		if cfg.ArchiveBucket != "" {
			p = p.WithArchive(archive.NewS3Archive(logger, cfg, db))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout+cfg.DeliverTimeout+time.Minute)
	defer cancel()

	status, err := p.Run(ctx)
	if err != nil {
		logger.WithError(err).Fatal("Pipeline run failed")
	}

	logger.WithField("status", string(status)).Info("Reporter finished")
}
