// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

// Package ctxlog attaches logrus loggers to contexts, so API calls
// made with a context log with the caller's fields.
package ctxlog

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	loggerCtxKey = new(int)
	rootLogger   = New(os.Stderr, "text", "info")
)

const rfc3339NanoFixed = "2006-01-02T15:04:05.000000000Z07:00"

// Context returns a new child context such that FromContext(child)
// returns the given logger.
func Context(ctx context.Context, logger logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// FromContext returns the logger suitable for the given context -- the one
// attached by Context() if applicable, otherwise the
// top-level logger with no fields/values.
func FromContext(ctx context.Context) logrus.FieldLogger {
	if logger, ok := LoggerFromContext(ctx); ok {
		return logger
	}
	return rootLogger.WithFields(nil)
}

// LoggerFromContext returns the logger attached by Context(), if
// any.
func LoggerFromContext(ctx context.Context) (logrus.FieldLogger, bool) {
	if ctx == nil {
		return nil, false
	}
	logger, ok := ctx.Value(loggerCtxKey).(logrus.FieldLogger)
	return logger, ok
}

// New returns a new logger with the indicated format and
// level. Unknown formats and levels fall back to "text" and "info",
// with a warning.
func New(out io.Writer, format, level string) *logrus.Logger {
	logger := logrus.New()
	logger.Out = out
	setFormat(logger, format)
	setLevel(logger, level)
	return logger
}

// TestLogger returns a logger that writes to the given writer at
// debug level, for use in tests.
func TestLogger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.Out = out
	logger.Formatter = &logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	}
	logger.Level = logrus.DebugLevel
	return logger
}

// SetLevel sets the current logging level of the top-level
// logger. See logrus for level names.
func SetLevel(level string) {
	setLevel(rootLogger, level)
}

func setLevel(logger *logrus.Logger, level string) {
	if level == "" {
		return
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.WithError(err).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	logger.Level = lvl
}

// SetFormat sets the current logging format of the top-level
// logger to "json" or "text".
func SetFormat(format string) {
	setFormat(rootLogger, format)
}

func setFormat(logger *logrus.Logger, format string) {
	switch format {
	case "text", "":
		logger.Formatter = &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: rfc3339NanoFixed,
		}
	case "json":
		logger.Formatter = &logrus.JSONFormatter{
			TimestampFormat: rfc3339NanoFixed,
		}
	default:
		setFormat(logger, "text")
		logger.WithField("LogFormat", format).Warn(fmt.Sprintf("unknown log format %q, using text", format))
	}
}
