// SPDX-License-Identifier: MIT

// Package logging builds the zap loggers used by the CLI and by worker processes.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Encodings accepted by New.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// ParseFormat checks that format names a known encoding.
func ParseFormat(format string) (string, error) {
	switch format {
	case FormatJSON, FormatConsole:
		return format, nil
	}

	return "", fmt.Errorf("unknown log format %q", format)
}

// New builds the orchestrator logger for level ("debug", "info", "warn",
// "error") and format. Entries go to stderr so that stdout stays reserved for
// the run report.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true
	if format == FormatConsole {
		zc.Encoding = FormatConsole
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger, nil
}

// NewWorker builds the logger of a worker process from the level handed down
// by its parent. An empty or unknown level disables logging.
func NewWorker(level string) *zap.Logger {
	if level == "" {
		return zap.NewNop()
	}
	logger, err := New(level, FormatJSON)
	if err != nil {
		return zap.NewNop()
	}

	return logger
}

// LevelOf returns the lowest level enabled on logger, or "" when the logger
// discards everything (e.g. zap.NewNop()).
func LevelOf(logger *zap.Logger) string {
	if logger == nil {
		return ""
	}
	lvl := logger.Level()
	if lvl < zapcore.DebugLevel || lvl > zapcore.FatalLevel {
		return ""
	}

	return lvl.String()
}
