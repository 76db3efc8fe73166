package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"BACKEND_URL", "PORT", "HTTP_TIMEOUT_SECONDS", "LOG_LEVEL", "TIMEZONE",
		"MESSAGE_PROBE_CONCURRENCY", "PAGE_SIZE", "RETRY_ATTEMPTS", "RETRY_BASE_MS"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, time.Local, cfg.Location)
	assert.Equal(t, 8, cfg.ProbeConcurrency)
	assert.Equal(t, 200, cfg.PageSize)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.RetryBase)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://trips.internal:9000/")
	t.Setenv("PORT", "9090")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("MESSAGE_PROBE_CONCURRENCY", "2")
	t.Setenv("PAGE_SIZE", "50")
	t.Setenv("RETRY_ATTEMPTS", "5")
	t.Setenv("RETRY_BASE_MS", "20")

	cfg := FromEnv()

	assert.Equal(t, "http://trips.internal:9000", cfg.BackendURL)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 2, cfg.ProbeConcurrency)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, 5, cfg.RetryAttempts)
	assert.Equal(t, 20*time.Millisecond, cfg.RetryBase)
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "soon")
	t.Setenv("TIMEZONE", "Mars/Olympus")
	t.Setenv("MESSAGE_PROBE_CONCURRENCY", "-4")
	t.Setenv("PAGE_SIZE", "lots")

	cfg := FromEnv()

	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, time.Local, cfg.Location)
	assert.Equal(t, 8, cfg.ProbeConcurrency)
	assert.Equal(t, 200, cfg.PageSize)
}

func TestFromEnvCapsPageSize(t *testing.T) {
	t.Setenv("PAGE_SIZE", "500")
	assert.Equal(t, MaxPageSize, FromEnv().PageSize)

	t.Setenv("PAGE_SIZE", "200")
	assert.Equal(t, 200, FromEnv().PageSize)
}
