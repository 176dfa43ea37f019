// Package logger wraps zerolog with the small surface the rest of the repo
// calls, configured from STORAGE_MINER_LOG_LEVEL.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New creates a logger writing to stdout, level taken from
// STORAGE_MINER_LOG_LEVEL (debug, info, warn, error); defaults to info.
func New() *Logger {
	level := levelFromEnv(os.Getenv("STORAGE_MINER_LOG_LEVEL"))
	zl := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	return &Logger{Logger: zl}
}

func levelFromEnv(v string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "":
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}

// With returns a child logger with the given key/value pair attached to
// every subsequent entry.
func (l *Logger) With(key, value string) *Logger {
	child := l.Logger.With().Str(key, value).Logger()
	return &Logger{Logger: child}
}

func (l *Logger) Info(msg string)  { l.Logger.Info().Msg(msg) }
func (l *Logger) Debug(msg string) { l.Logger.Debug().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.Logger.Warn().Msg(msg) }
func (l *Logger) Error(err error, msg string) {
	l.Logger.Error().Err(err).Msg(msg)
}
