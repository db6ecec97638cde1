// Package logging provides structured logging configuration for soaptrace.
//
// This package wraps log/slog so every component logs the same way. It
// supports configurable log levels and output formats, and can mirror
// output to a log file.
//
// # Usage
//
// Create a logger with desired configuration:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("capture opened", "path", path)
//	logger.Error("parse failed", "error", err)
//
// # Log Levels
//
// Four log levels are supported:
//   - Debug: skipped records, assembly loads, cache misses
//   - Info: General operational information
//   - Warn: Warning conditions that should be addressed
//   - Error: Error conditions that need attention
//
// # Output Formats
//
//   - Text: Human-readable format for terminals
//   - JSON: Structured format for log aggregation systems
//
// # Integration
//
// Components accept a *slog.Logger through an option. If no logger is
// provided they use logging.Nop().
package logging
