// Package logger builds the structured loggers the CLI and validation
// sessions report through.
package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// New creates a logger writing tinted output to stderr at info level.
func New() *slog.Logger {
	return NewWithLevel(slog.LevelInfo)
}

// NewWithLevel creates a stderr logger at the given level.
func NewWithLevel(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a logger for an arbitrary destination, typically a
// test buffer.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{Level: level}))
}

// Error creates a structured error field.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}
