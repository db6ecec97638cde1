package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level represents a log level.
type Level = slog.Level

// Log levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format represents the log output format.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level Level

	// Format is the output format (text or json).
	Format Format

	// Output is the writer to send logs to. Defaults to os.Stderr.
	Output io.Writer

	// File, when set, also receives every record as JSON.
	File string

	// AddSource adds source file and line to log entries.
	AddSource bool
}

// DefaultConfig returns sensible defaults for logging.
func DefaultConfig() Config {
	return Config{
		Level:  LevelWarn,
		Format: FormatText,
		Output: os.Stderr,
	}
}

// New creates a new slog.Logger with the given configuration. Config.File
// is ignored; use Open to log to a file as well.
func New(cfg Config) *slog.Logger {
	return slog.New(newHandler(cfg.Output, cfg.Format, cfg.Level, cfg.AddSource))
}

// Open creates a logger for cfg. When cfg.File is set, records are written
// to Output and appended to the file as JSON; the returned closer closes
// the file.
func Open(cfg Config) (*slog.Logger, io.Closer, error) {
	if cfg.File == "" {
		return New(cfg), nopCloser{}, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	handler := NewMultiHandler(
		newHandler(cfg.Output, cfg.Format, cfg.Level, cfg.AddSource),
		newHandler(f, FormatJSON, cfg.Level, cfg.AddSource),
	)
	return slog.New(handler), f, nil
}

func newHandler(w io.Writer, format Format, level Level, addSource bool) slog.Handler {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
	}
	if format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Nop returns a no-op logger that discards all output.
// Use this when a logger is required but logging is disabled.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// LookupLevel parses a log level name, case-insensitively.
// Valid values: "debug", "info", "warn" (or "warning"), "error".
func LookupLevel(s string) (Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// ParseLevel parses a log level string.
// Returns LevelInfo if the string is not recognized.
func ParseLevel(s string) Level {
	level, _ := LookupLevel(s)
	return level
}

// LookupFormat parses a log format name, case-insensitively.
func LookupFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, true
	case FormatText:
		return FormatText, true
	default:
		return FormatText, false
	}
}

// ParseFormat parses a log format string.
// Returns FormatText if the string is not recognized.
func ParseFormat(s string) Format {
	format, _ := LookupFormat(s)
	return format
}
