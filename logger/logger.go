// Package logger sets up the structured logger shared by the interpreter,
// the motion command encoder and the command-line tool.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Global logger instance. Until Init runs, messages are discarded.
var defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Config holds logger configuration
type Config struct {
	Level     slog.Level
	Format    string // "text" or "json"
	Output    io.Writer
	AddSource bool
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelInfo,
		Format: "text",
		Output: os.Stderr,
	}
}

// ParseLevel accepts debug, info, warn or error, in any case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Init replaces the global logger. Text output to a terminal on stderr goes
// through a colorable writer so escape sequences work on every platform.
func Init(cfg Config) error {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if f, ok := output.(*os.File); ok && f == os.Stderr && isatty.IsTerminal(f.Fd()) {
		output = colorable.NewColorableStderr()
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	case "", "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}

	defaultLogger = slog.New(handler)
	return nil
}

func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }
func Info(msg string, args ...any)  { defaultLogger.Info(msg, args...) }
func Warn(msg string, args ...any)  { defaultLogger.Warn(msg, args...) }
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }

// With returns a child of the current global logger.
func With(args ...any) *slog.Logger {
	return defaultLogger.With(args...)
}
