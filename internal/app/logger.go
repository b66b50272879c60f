package app

import (
	"io"
	"log/slog"

	"github.com/SuramyaVimal/dag-cd/internal/config"
)

// newLogger builds the run's logger from the log_level and log_format
// settings. Debug runs also record the source position of each line. The
// global logger is left alone so parallel apps in tests stay isolated.
func newLogger(settings *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(settings.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}
	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if settings.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("app", "dagcd")
}
