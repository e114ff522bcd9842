package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a slog.Logger configured based on the application environment.
// Production and staging emit JSON at info level; everything else gets a
// human-readable text handler at debug level.
func New(env string) *slog.Logger {
	var handler slog.Handler
	switch env {
	case "production", "staging":
		handler = slog.NewJSONHandler(defaultWriter(), &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	default:
		handler = slog.NewTextHandler(defaultWriter(), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
	return slog.New(handler).With("service", "qnahub")
}

func defaultWriter() io.Writer {
	return os.Stdout
}
