package config

import (
	"io"
	"log/slog"
	"os"
)

// InitLogger installs a JSON slog logger on stdout as the default logger.
func InitLogger(level slog.Level) *slog.Logger {
	return initLogger(os.Stdout, level)
}

func initLogger(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	l := slog.New(h)
	slog.SetDefault(l) // log.Printf, and so chi's middleware.Logger, now write through slog
	return l
}
