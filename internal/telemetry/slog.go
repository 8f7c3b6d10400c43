package telemetry

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// parseLogLevel maps a configuration string to a slog.Level. Unknown or empty
// values fall back to Info so a typo in config never silences the logs.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// newLogHandler builds the slog.Handler for the given format and level.
//
// format "json" selects JSONHandler (machine readable, for production);
// anything else selects TextHandler (for local development). Source locations
// are attached only at debug level to keep production records compact.
func newLogHandler(w io.Writer, format, level string) slog.Handler {
	lvl := parseLogLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}
	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// SetupLogger installs the global slog default logger from the logging section
// of application configuration. Every record carries a constant service
// attribute so aggregated logs from several deployments stay distinguishable.
//
// The configured logger is the process-wide default, so slog.Info/Warn/Error
// calls elsewhere use it without carrying a *slog.Logger around.
func SetupLogger(format, level string) {
	logger := slog.New(newLogHandler(os.Stdout, format, level)).
		With("service", "geodata-registry")
	slog.SetDefault(logger)
	slog.Info("logger initialised", "format", format, "level", parseLogLevel(level).String())
}
