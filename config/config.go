/*
Package config loads server configuration from flags, the environment and an
optional .env file.

PRECEDENCE:
  flag > environment variable > .env file > default

  The .env file only fills variables that are not already set, so the real
  environment always wins over it.

VARIABLES:
  PORT                 HTTP port (8080)
  DATABASE_PATH        SQLite path, ":memory:" allowed (esocial.db)
  TAX_TABLES_PATH      YAML tax table; empty = embedded table
  LOG_LEVEL            debug | info | warn | error (info)
  CORS_ORIGINS         comma-separated allowed origins
  SHUTDOWN_TIMEOUT     graceful shutdown wait (30s)
  REMINDER_INTERVAL    deadline scheduler interval, 0 disables (1h)
  REMINDER_LEAD_DAYS   days ahead to warn about deadlines (3)

USAGE:
  cfg, err := config.Load(os.Args[1:])
  logger := config.InitLogger(cfg.LogLevel)
*/
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the server configuration.
type Config struct {
	Port             int
	DatabasePath     string
	TaxTablesPath    string
	LogLevel         slog.Level
	CORSOrigins      []string
	ShutdownTimeout  time.Duration
	ReminderInterval time.Duration
	ReminderLeadDays int
}

// Load reads the .env file (if any), then the environment, then args.
func Load(args []string) (*Config, error) {
	return load(args, ".env", io.Discard)
}

func load(args []string, envFile string, output io.Writer) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Port:             parseInt("PORT", 8080),
		DatabasePath:     getenvAny("esocial.db", "DATABASE_PATH", "DB_PATH"),
		TaxTablesPath:    getenv("TAX_TABLES_PATH", ""),
		LogLevel:         parseLevel(getenv("LOG_LEVEL", "info")),
		CORSOrigins:      splitList(getenv("CORS_ORIGINS", "")),
		ShutdownTimeout:  parseDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		ReminderInterval: parseDuration("REMINDER_INTERVAL", time.Hour),
		ReminderLeadDays: parseInt("REMINDER_LEAD_DAYS", 3),
	}

	fsFlags := flag.NewFlagSet("server", flag.ContinueOnError)
	fsFlags.SetOutput(output)
	fsFlags.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fsFlags.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "SQLite database path (\":memory:\" for in-memory)")
	fsFlags.StringVar(&cfg.TaxTablesPath, "tables", cfg.TaxTablesPath, "tax table YAML (empty = embedded table)")
	level := fsFlags.String("log-level", cfg.LogLevel.String(), "log level: debug, info, warn, error")
	fsFlags.DurationVar(&cfg.ReminderInterval, "reminder-interval", cfg.ReminderInterval, "deadline reminder interval (0 disables)")
	if err := fsFlags.Parse(args); err != nil {
		return nil, err
	}
	cfg.LogLevel = parseLevel(*level)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DatabasePath == "" {
		return errors.New("database path is required")
	}
	if c.ReminderInterval < 0 {
		return fmt.Errorf("invalid reminder interval %s", c.ReminderInterval)
	}
	if c.ReminderLeadDays < 0 {
		return fmt.Errorf("invalid reminder lead days %d", c.ReminderLeadDays)
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvAny(def string, keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func parseDuration(env string, def time.Duration) time.Duration {
	if v := os.Getenv(env); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseInt(env string, def int) int {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
