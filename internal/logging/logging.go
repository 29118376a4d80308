// Package logging wraps logrus behind a small interface so packages can
// log with structured fields without depending on the logrus API.
//
// All output goes to stderr: the MCP stdio transport owns stdout, and
// anything written there corrupts the protocol stream.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Fields are a representation of structured log fields.
type Fields map[string]interface{}

// Logger is the logging interface handed to packages.
type Logger interface {
	With(fields Fields) *Log
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Log is the logrus-backed implementation.
type Log struct {
	*logrus.Entry
}

// New creates a logger at the given level ("debug", "info", "warn",
// "error").
func New(level string) (*Log, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	log.Formatter = &logrus.TextFormatter{
		TimestampFormat:  "2006-01-02 15:04:05.0000",
		DisableColors:    true,
		FullTimestamp:    true,
		QuoteEmptyFields: true,
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: bad level %q: %w", level, err)
	}
	log.SetLevel(parsed)

	return &Log{Entry: logrus.NewEntry(log)}, nil
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() *Log {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)
	return &Log{Entry: logrus.NewEntry(log)}
}

// With adds fields to the formatted log entry.
func (l *Log) With(fields Fields) *Log {
	return &Log{Entry: l.WithFields(logrus.Fields(fields))}
}
