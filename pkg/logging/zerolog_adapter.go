// Package logging bridges the standard library logger to zerolog, for
// dependencies that only accept a *log.Logger.
package logging

import (
	"log"
	"strings"

	"github.com/rs/zerolog"
)

type zeroLogWriter struct {
	logger zerolog.Logger
	level  zerolog.Level
}

func (z *zeroLogWriter) Write(p []byte) (n int, err error) {
	// log.Logger terminates every message with a newline; zerolog
	// renders its own.
	msg := strings.TrimSuffix(string(p), "\n")
	z.logger.WithLevel(z.level).CallerSkipFrame(3).Msg(msg)
	return len(p), nil
}

// NewZeroLogAdapter returns a new log.Logger that writes to the given zerolog.Logger at the given level.
func NewZeroLogAdapter(logger zerolog.Logger, level zerolog.Level) *log.Logger {
	zlw := &zeroLogWriter{logger, level}
	return log.New(zlw, "", 0)
}
