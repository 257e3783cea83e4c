// Copyright (c) 2023 - for information on the respective copyright owner
// see the NOTICE file and/or the repository at
// https://github.com/capaio/solidity-crowdfunding
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides the logger used across the node. It is a thin wrapper over logrus that
// fixes the output format and allows each component to log with its own identifying field.
package log

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Logger is the interface that components embed for logging.
type Logger = logrus.FieldLogger

var logger *logrus.Logger

func init() {
	// Components created before InitLogger (such as in tests) log to stdout at info level.
	logger = newLogger()
	logger.SetOutput(os.Stdout)
}

// InitLogger sets the level and output of the logger shared by all components.
// Supported log levels are "debug", "info" and "error".
// Logs to stdout if logFile is an empty string.
func InitLogger(levelStr, logFile string) error {
	if levelStr != "debug" && levelStr != "info" && levelStr != "error" {
		return errors.New("unsupported log level, use debug, info or error")
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return errors.WithStack(err)
	}

	l := newLogger()
	l.SetLevel(level)
	if logFile == "" {
		l.SetOutput(os.Stdout)
	} else {
		f, err := os.OpenFile(filepath.Clean(logFile), os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
		if err != nil {
			return errors.WithStack(err)
		}
		l.SetOutput(f)
	}
	logger = l
	return nil
}

// NewLoggerWithField returns a logger that logs with the given field.
// The logger uses the level and output set in the last call to InitLogger.
func NewLoggerWithField(key string, value interface{}) Logger {
	return logger.WithField(key, value)
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&customTextFormatter{logrus.TextFormatter{
		FullTimestamp:          true,
		TimestampFormat:        "2006-01-02 15:04:05 Z0700",
		DisableLevelTruncation: true,
	}})
	return l
}

// customTextFormatter is defined to override default formatting options for log entry.
type customTextFormatter struct {
	logrus.TextFormatter
}

// Format modifies the default logging format.
func (f *customTextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	originalText, err := f.TextFormatter.Format(entry)
	return append([]byte("▶ "), originalText...), err
}
