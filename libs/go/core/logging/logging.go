package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init configures a global slog logger. JSON if INFINSAFE_JSON_LOG=1/true/json else text.
func Init(service string) *slog.Logger {
	return InitWithWriter(service, os.Stdout)
}

// InitWithWriter is Init with an explicit sink; infinsafectl logs to stderr through it.
func InitWithWriter(service string, w io.Writer) *slog.Logger {
	json := jsonEnabled(os.Getenv("INFINSAFE_JSON_LOG"))
	opts := &slog.HandlerOptions{AddSource: false, Level: ParseLevel(os.Getenv("INFINSAFE_LOG_LEVEL"))}
	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler).With("service", service)
	slog.SetDefault(logger)
	logger.Debug("logging initialized", "json", json)
	return logger
}

// ParseLevel maps debug|info|warn|error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func jsonEnabled(mode string) bool {
	switch strings.ToLower(mode) {
	case "1", "true", "json":
		return true
	}
	return false
}
