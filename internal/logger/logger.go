package logger

import (
	"io"
	"log/slog"
	"os"

	"roobaroo/internal/config"
)

// Logger wraps slog.Logger with service-wide attributes attached.
type Logger struct {
	*slog.Logger
	config *config.Config
}

// New creates the process logger and installs it as the slog default.
func New(cfg *config.Config) *Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		// Text format reads better during development.
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	logger := slog.New(handler).With(
		"service", "roobaroo-backend",
		"environment", cfg.Server.Environment,
	)

	slog.SetDefault(logger)

	return &Logger{
		Logger: logger,
		config: cfg,
	}
}

// WithError creates a logger with error context
func (l *Logger) WithError(err error) *slog.Logger {
	return l.With("error", err.Error())
}

// Silence redirects the default logger to w at error level only
// (useful for testing).
func Silence(w io.Writer) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelError,
	})
	slog.SetDefault(slog.New(handler))
}
