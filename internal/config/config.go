package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string
	PostgresDatabase string
	PostgresSSLMode  string

	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string

	SenderAddress string
	AdminEmail    string

	ArchiveBucket string

	PushgatewayURL string

	FetchPageSize  int
	FetchPageRate  float64
	FetchTimeout   time.Duration
	DeliverTimeout time.Duration

	MockDataPath string
	OutputDir    string
}

func Load() *Config {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	return &Config{
		PostgresUser:     getEnv("POSTGRES_USER", "analytics"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresDatabase: getEnv("POSTGRES_DATABASE", "security_logs"),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKey:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:     getEnv("AWS_SECRET_ACCESS_KEY", ""),
		SenderAddress:    getEnv("SENDER_ADDRESS", "Security Bot <reports@localhost>"),
		AdminEmail:       getEnv("ADMIN_EMAIL", ""),
		ArchiveBucket:    getEnv("ARCHIVE_BUCKET", ""),
		PushgatewayURL:   getEnv("PUSHGATEWAY_URL", ""),
		FetchPageSize:    getEnvInt("FETCH_PAGE_SIZE", 5000),
		FetchPageRate:    getEnvFloat("FETCH_PAGE_RATE", 5),
		FetchTimeout:     getEnvDuration("FETCH_TIMEOUT", 2*time.Minute),
		DeliverTimeout:   getEnvDuration("DELIVER_TIMEOUT", 30*time.Second),
		MockDataPath:     getEnv("MOCK_DATA_PATH", "data/mock_logs.csv"),
		OutputDir:        getEnv("OUTPUT_DIR", "reports"),
	}
}

// ValidateLive checks the credentials the live pipeline needs. Mock runs read a
// local CSV and write a local file, so they skip this entirely.
func (c *Config) ValidateLive() error {
	var missing []string
	if c.AWSAccessKey == "" {
		missing = append(missing, "AWS_ACCESS_KEY_ID")
	}
	if c.AWSSecretKey == "" {
		missing = append(missing, "AWS_SECRET_ACCESS_KEY")
	}
	if c.AdminEmail == "" {
		missing = append(missing, "ADMIN_EMAIL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
