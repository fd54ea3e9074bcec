package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "GIN_MODE", "LOG_LEVEL", "STORE_DRIVER", "JOURNAL_KEY", "JOURNAL_WINDOW",
		"JOURNAL_TIMEZONE", "DATABASE_URL", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_HOST",
		"POSTGRES_PORT", "POSTGRES_DB", "POSTGRES_SSLMODE", "REDIS_HOST", "REDIS_PORT", "REDIS_DB",
		"REDIS_PASSWORD", "FIREBASE_SERVICE_ACCOUNT_PATH", "FIREBASE_PROJECT_ID",
		"REMINDER_CRON", "REMINDER_DEVICE_TOKEN",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9091", cfg.Port)
	assert.Equal(t, "redis", cfg.StoreDriver)
	assert.Equal(t, "registros", cfg.JournalKey)
	assert.Equal(t, 7, cfg.JournalWindow)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "postgres://postgres:@localhost:5432/dailyscore?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, "0 20 * * *", cfg.ReminderCron)
	assert.Equal(t, time.Local, cfg.Location)
	assert.False(t, cfg.FirebaseEnabled())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("JOURNAL_KEY", "registros:test")
	t.Setenv("JOURNAL_WINDOW", "14")
	t.Setenv("JOURNAL_TIMEZONE", "UTC")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("FIREBASE_PROJECT_ID", "demo")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DatabaseURL)
	assert.Equal(t, "registros:test", cfg.JournalKey)
	assert.Equal(t, 14, cfg.JournalWindow)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.FirebaseEnabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"STORE_DRIVER":     "sqlite",
		"JOURNAL_WINDOW":   "-2",
		"REDIS_DB":         "zero",
		"JOURNAL_TIMEZONE": "Mars/Olympus",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
