package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/storefront-api/internal/config"
)

// nopCloser is returned when logs go to stdout, which must not be closed.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ParseLevel converts a configured level name into a slog.Level.
// Unknown names fall back to info and report ok=false.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Setup initializes and configures the application's logging system based on
// the provided configuration. It creates a structured JSON logger with the
// appropriate log level and sets it as the default logger for the application.
//
// When cfg.LogFile is set the file is opened in append mode and the returned
// io.Closer closes it; otherwise logs go to stdout and the closer is a no-op.
func Setup(cfg config.ServerConfig) (*slog.Logger, io.Closer, error) {
	// Default to stdout, which the process must never close
	var (
		out    io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)

	// A configured log file replaces stdout; append so restarts keep history
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closer = f
	}

	logger := New(out, cfg.LogLevel)

	// Set this logger as the default for the application
	// This allows using the slog package functions directly (slog.Info, slog.Error, etc.)
	slog.SetDefault(logger)

	return logger, closer, nil
}

// New builds a JSON logger writing to out at the named level.
func New(out io.Writer, levelName string) *slog.Logger {
	// Parse the log level from configuration (case-insensitive)
	level, ok := ParseLevel(levelName)

	// JSON output so log aggregation can index the attributes
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))

	// An invalid level still yields a usable info logger; say so through it
	if !ok {
		logger.Warn("invalid log level configured, using default level",
			"configured_level", levelName,
			"default_level", "info")
	}

	return logger
}
