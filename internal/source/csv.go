package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tommcrojo/security-log-analytics/internal/models"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// CSVSource reads access logs from a static file, used in mock mode. A single
// malformed row fails the whole batch: partial aggregation over a corrupted
// file would silently skew the report.
type CSVSource struct {
	path string
	log  *logrus.Entry
}

func NewCSVSource(logger *logrus.Logger, path string) *CSVSource {
	return &CSVSource{
		path: path,
		log:  logger.WithField("component", "csv_source"),
	}
}

func (s *CSVSource) Fetch(ctx context.Context, start, end time.Time) ([]models.AccessLog, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var records []models.AccessLog
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fetch cancelled: %w", err)
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if rec.Timestamp.Before(start) || !rec.Timestamp.Before(end) {
			continue
		}
		records = append(records, rec)
	}

	s.log.WithFields(logrus.Fields{
		"path":  s.path,
		"count": len(records),
	}).Info("Loaded access logs from file")
	return records, nil
}

type columnIndex struct {
	timestamp int
	action    int
	country   int
	ip        int
	latency   int
}

func mapColumns(header []string) (columnIndex, error) {
	idx := columnIndex{timestamp: -1, action: -1, country: -1, ip: -1, latency: -1}
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "timestamp":
			idx.timestamp = i
		case "action":
			idx.action = i
		case "country":
			idx.country = i
		case "ip":
			idx.ip = i
		case "response_time_ms":
			idx.latency = i
		}
	}

	var missing []string
	for name, i := range map[string]int{
		"timestamp":        idx.timestamp,
		"action":           idx.action,
		"country":          idx.country,
		"ip":               idx.ip,
		"response_time_ms": idx.latency,
	} {
		if i < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRow(row []string, cols columnIndex) (models.AccessLog, error) {
	rec := models.AccessLog{
		Action:  strings.TrimSpace(row[cols.action]),
		Country: strings.TrimSpace(row[cols.country]),
		IP:      strings.TrimSpace(row[cols.ip]),
	}

	ts, err := parseTimestamp(strings.TrimSpace(row[cols.timestamp]))
	if err != nil {
		return rec, err
	}
	rec.Timestamp = ts

	if raw := strings.TrimSpace(row[cols.latency]); raw != "" {
		latency, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return rec, fmt.Errorf("invalid response_time_ms %q", raw)
		}
		if latency < 0 {
			return rec, fmt.Errorf("negative response_time_ms %q", raw)
		}
		rec.ResponseTimeMS = &latency
	}

	return rec, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}
