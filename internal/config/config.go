// Package config loads service settings from the environment. A .env file in
// the working directory is read first when present; real environment
// variables take precedence over it.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

const devSecret = "dev-secret-change-me"

// Config is the resolved service configuration.
type Config struct {
	Port             int
	DBPath           string
	JWTSecret        string
	TokenTTL         time.Duration
	FetchTimeout     time.Duration
	FetchChunkSize   int
	CollationLocale  language.Tag
	PaymentDraftIdle time.Duration
	LogLevel         slog.Level
	Dev              bool
}

// Load reads .env files (if any) and then the environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only. JWT_SECRET is
// not checked here since only the server signs tokens; see RequireJWTSecret.
func FromEnv() (*Config, error) {
	var errs []error
	cfg := &Config{
		DBPath:    getEnv("DB_PATH", "./data/ledger.db"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		Dev:       getBool("DEV", &errs),
	}
	cfg.Port = getInt("PORT", 8080, &errs)
	cfg.TokenTTL = getDuration("TOKEN_TTL", 24*time.Hour, &errs)
	cfg.FetchTimeout = getDuration("FETCH_TIMEOUT", 15*time.Second, &errs)
	cfg.FetchChunkSize = getInt("FETCH_CHUNK_SIZE", 100, &errs)
	cfg.PaymentDraftIdle = getDuration("PAYMENT_DRAFT_IDLE", 2*time.Second, &errs)

	tag, err := language.Parse(getEnv("COLLATION_LOCALE", "en"))
	if err != nil {
		errs = append(errs, fmt.Errorf("COLLATION_LOCALE: %w", err))
	}
	cfg.CollationLocale = tag

	level, err := ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		errs = append(errs, err)
	}
	cfg.LogLevel = level

	if cfg.FetchChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_CHUNK_SIZE must be positive, got %d", cfg.FetchChunkSize))
	}
	if cfg.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", cfg.FetchTimeout))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RequireJWTSecret fails when no signing secret is configured. In dev mode a
// fixed development secret is filled in instead.
func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret != "" {
		return nil
	}
	if !c.Dev {
		return errors.New("JWT_SECRET is required (set DEV=true to use a development secret)")
	}
	c.JWTSecret = devSecret
	return nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: unknown level %q", s)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func getBool(key string, errs *[]error) bool {
	value := os.Getenv(key)
	if value == "" {
		return false
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
	}
	return b
}
