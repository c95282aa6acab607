package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var keys = []string{
	"PORT", "DB_PATH", "JWT_SECRET", "TOKEN_TTL", "FETCH_TIMEOUT", "FETCH_CHUNK_SIZE",
	"COLLATION_LOCALE", "PAYMENT_DRAFT_IDLE", "LOG_LEVEL", "DEV",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEV", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.RequireJWTSecret())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "./data/ledger.db", cfg.DBPath)
	assert.Equal(t, devSecret, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 100, cfg.FetchChunkSize)
	assert.Equal(t, language.English, cfg.CollationLocale)
	assert.Equal(t, 2*time.Second, cfg.PaymentDraftIdle)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("FETCH_TIMEOUT", "500ms")
	t.Setenv("FETCH_CHUNK_SIZE", "25")
	t.Setenv("COLLATION_LOCALE", "de")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 500*time.Millisecond, cfg.FetchTimeout)
	assert.Equal(t, 25, cfg.FetchChunkSize)
	assert.Equal(t, language.German, cfg.CollationLocale)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")
	t.Setenv("FETCH_CHUNK_SIZE", "0")
	t.Setenv("LOG_LEVEL", "loud")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "FETCH_CHUNK_SIZE")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestJWTSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PATH", "/tmp/import.db")

	// The importer never signs tokens, so a missing secret must not stop it.
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/import.db", cfg.DBPath)
	assert.Empty(t, cfg.JWTSecret)

	err = cfg.RequireJWTSecret()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Empty(t, cfg.JWTSecret)

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err = FromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.RequireJWTSecret())
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, and
	// t.Setenv("") counts as set, so unset the ones the file provides.
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("DB_PATH")
	t.Cleanup(func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("DB_PATH")
	})

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nDB_PATH=/tmp/x.db\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
