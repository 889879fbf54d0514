package config

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "DATABASE_PATH", "DB_PATH", "TAX_TABLES_PATH", "LOG_LEVEL",
	"CORS_ORIGINS", "SHUTDOWN_TIMEOUT", "REMINDER_INTERVAL", "REMINDER_LEAD_DAYS",
}

// clearEnv unsets the config variables for the test and restores them after.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := load(nil, "", io.Discard)

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "esocial.db", cfg.DatabasePath)
	assert.Empty(t, cfg.TaxTablesPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, time.Hour, cfg.ReminderInterval)
	assert.Equal(t, 3, cfg.ReminderLeadDays)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("REMINDER_INTERVAL", "15m")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")

	cfg, err := load(nil, "", io.Discard)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, ":memory:", cfg.DatabasePath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 15*time.Minute, cfg.ReminderInterval)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	// GIVEN: a .env file and a real PORT variable
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=7070\nREMINDER_LEAD_DAYS=5\n"), 0o600))
	t.Setenv("PORT", "9090")

	// WHEN
	cfg, err := load(nil, envFile, io.Discard)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 5, cfg.ReminderLeadDays)
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	clearEnv(t)

	_, err := load(nil, filepath.Join(t.TempDir(), "absent.env"), io.Discard)

	assert.NoError(t, err)
}

func TestLoad_FlagsWin(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := load([]string{"-port", "6060", "-log-level", "error", "-db", ":memory:", "-reminder-interval", "0s"}, "", io.Discard)

	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Port)
	assert.Equal(t, slog.LevelError, cfg.LogLevel)
	assert.Equal(t, ":memory:", cfg.DatabasePath)
	assert.Zero(t, cfg.ReminderInterval)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"port out of range", map[string]string{"PORT": "70000"}, nil},
		{"negative lead days", map[string]string{"REMINDER_LEAD_DAYS": "-1"}, nil},
		{"negative interval", nil, []string{"-reminder-interval", "-1m"}},
		{"unknown flag", nil, []string{"-verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := load(tt.args, "", io.Discard)

			assert.Error(t, err)
		})
	}
}

func TestInitLogger(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	logger := initLogger(&buf, slog.LevelWarn)

	logger.Info("dropped")
	logger.Warn("deadline approaching", "type", "dae")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), buf.String())
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "deadline approaching", entry["msg"])
	assert.Equal(t, "dae", entry["type"])
	assert.Same(t, logger, slog.Default())
}
