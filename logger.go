package main

import (
	stdlog "log"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	logger     = zerolog.New(os.Stdout).With().Timestamp().Logger()
	loggerOnce sync.Once
)

// InitLogger configures the package logger and routes the stdlib log package
// through it, so output from dependencies using log is JSON as well.
func InitLogger(level string) {
	loggerOnce.Do(func() {
		logger = zerolog.New(os.Stdout).Level(parseLevel(level)).With().Timestamp().Logger()
		stdlog.SetFlags(0)
		stdlog.SetOutput(logger.With().Str("source", "stdlog").Logger())
	})
}

// L returns the package logger.
func L() *zerolog.Logger {
	return &logger
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
