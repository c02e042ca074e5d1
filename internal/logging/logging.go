// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging builds the loggers used by the compiler and the command.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// New returns a logger that writes to w entries with the given level and
// format. level is one of "debug", "info", "warn" and "error", format is
// "text" or "json". The empty string selects "info" and "text".
func New(w io.Writer, level, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	if level == "" {
		level = "info"
	}
	switch level {
	case "debug", "info", "warn", "error":
		lvl, _ := logrus.ParseLevel(level)
		logger.SetLevel(lvl)
	default:
		return nil, fmt.Errorf("logging: invalid level %q", level)
	}
	switch format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
			DisableColors:    true,
		})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{DisableTimestamp: true})
	default:
		return nil, fmt.Errorf("logging: invalid format %q", format)
	}
	return logger, nil
}

// Discard returns a logger that discards every entry.
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(logger)
}
