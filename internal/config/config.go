package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the API server reads from the environment
type Config struct {
	Port    string
	GinMode string

	LogLevel string

	StoreDriver string

	JournalKey    string
	JournalWindow int
	Location      *time.Location

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	FirebaseServiceAccountPath string
	FirebaseProjectID          string

	ReminderCron        string
	ReminderDeviceToken string
}

// Load reads .env (when present) and the process environment
func Load() (*Config, error) {
	// A missing .env is fine; system environment variables still apply
	_ = godotenv.Load()

	cfg := &Config{
		Port:                       getEnvOrDefault("PORT", "9091"),
		GinMode:                    getEnvOrDefault("GIN_MODE", "release"),
		LogLevel:                   getEnvOrDefault("LOG_LEVEL", "info"),
		StoreDriver:                getEnvOrDefault("STORE_DRIVER", "redis"),
		JournalKey:                 getEnvOrDefault("JOURNAL_KEY", "registros"),
		DatabaseURL:                os.Getenv("DATABASE_URL"),
		RedisPassword:              os.Getenv("REDIS_PASSWORD"),
		FirebaseServiceAccountPath: os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"),
		FirebaseProjectID:          os.Getenv("FIREBASE_PROJECT_ID"),
		ReminderCron:               getEnvOrDefault("REMINDER_CRON", "0 20 * * *"),
		ReminderDeviceToken:        os.Getenv("REMINDER_DEVICE_TOKEN"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			getEnvOrDefault("POSTGRES_USER", "postgres"),
			getEnvOrDefault("POSTGRES_PASSWORD", ""),
			getEnvOrDefault("POSTGRES_HOST", "localhost"),
			getEnvOrDefault("POSTGRES_PORT", "5432"),
			getEnvOrDefault("POSTGRES_DB", "dailyscore"),
			getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		)
	}

	cfg.RedisAddr = fmt.Sprintf("%s:%s",
		getEnvOrDefault("REDIS_HOST", "localhost"),
		getEnvOrDefault("REDIS_PORT", "6379"),
	)

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}
	cfg.RedisDB = redisDB

	window, err := strconv.Atoi(getEnvOrDefault("JOURNAL_WINDOW", "7"))
	if err != nil || window <= 0 {
		return nil, fmt.Errorf("invalid JOURNAL_WINDOW value: %q", os.Getenv("JOURNAL_WINDOW"))
	}
	cfg.JournalWindow = window

	cfg.Location = time.Local
	if tz := os.Getenv("JOURNAL_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid JOURNAL_TIMEZONE value: %w", err)
		}
		cfg.Location = loc
	}

	switch cfg.StoreDriver {
	case "redis", "postgres", "memory":
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want redis, postgres or memory)", cfg.StoreDriver)
	}

	return cfg, nil
}

// FirebaseEnabled reports whether push delivery can be configured
func (c *Config) FirebaseEnabled() bool {
	return c.FirebaseServiceAccountPath != "" || c.FirebaseProjectID != ""
}

// getEnvOrDefault returns the environment variable value or a default value if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
