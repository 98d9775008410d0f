package logging

import (
	"io"
	"log/slog"
	"os"
)

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup creates a structured logger that writes to a file or discards
// output. If logFile is empty, output is discarded to keep the interactive
// prompt clean; otherwise logs are written as JSON to that file.
// Returns the logger and a cleanup function that must be called to close
// the file.
func Setup(level, logFile string) (*slog.Logger, func()) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	cleanup := func() {}

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			// Fall back to discarding if the file can't be opened.
			handler = slog.NewTextHandler(io.Discard, opts)
		} else {
			handler = slog.NewJSONHandler(file, opts)
			cleanup = func() { file.Close() }
		}
	} else {
		handler = slog.NewTextHandler(io.Discard, opts)
	}

	return slog.New(handler), cleanup
}
