package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MaxPageSize is the largest limit the bookings backend accepts on list calls.
const MaxPageSize = 200

type Config struct {
	BackendURL       string
	Port             string
	HTTPTimeout      time.Duration
	LogLevel         slog.Level
	Location         *time.Location
	ProbeConcurrency int
	PageSize         int
	RetryAttempts    int
	RetryBase        time.Duration
}

// FromEnv reads the process environment, after loading .env if one exists.
func FromEnv() Config {
	_ = godotenv.Load()

	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	loc := time.Local
	if v := os.Getenv("TIMEZONE"); v != "" {
		if l, err := time.LoadLocation(v); err == nil {
			loc = l
		}
	}
	return Config{
		BackendURL:       strings.TrimRight(envOr("BACKEND_URL", "http://localhost:8000"), "/"),
		Port:             envOr("PORT", "8080"),
		HTTPTimeout:      to,
		LogLevel:         lvl,
		Location:         loc,
		ProbeConcurrency: intOr("MESSAGE_PROBE_CONCURRENCY", 8),
		PageSize:         min(intOr("PAGE_SIZE", MaxPageSize), MaxPageSize),
		RetryAttempts:    intOr("RETRY_ATTEMPTS", 3),
		RetryBase:        time.Duration(intOr("RETRY_BASE_MS", 100)) * time.Millisecond,
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

// intOr ignores unparseable and non-positive values.
func intOr(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
