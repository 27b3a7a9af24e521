// Copyright 2025 Patrick J. Scruggs
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

// Package slogaccesslogrus adapts a logrus logger to the slogaccess Logger
// capability.
package slogaccesslogrus

import (
	"github.com/sirupsen/logrus"

	"github.com/pjscruggs/slogaccess"
)

// Option configures the adapter returned by New.
type Option func(*sink)

// WithLevel sets the logrus level entries are written at. The default is
// logrus.InfoLevel. Panic and Fatal are written at Error.
func WithLevel(level logrus.Level) Option {
	return func(s *sink) {
		s.level = level
	}
}

type sink struct {
	logger logrus.FieldLogger
	level  logrus.Level
}

// New returns a slogaccess.Logger writing to logger. Each entry carries
// "request" and "response" fields, plus "traceId" and "spanId" when the
// exchange was traced. A nil logger falls back to logrus.StandardLogger().
func New(logger logrus.FieldLogger, opts ...Option) slogaccess.Logger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &sink{logger: logger, level: logrus.InfoLevel}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Info implements slogaccess.Logger.
func (s *sink) Info(record slogaccess.AccessLogRecord, message string) {
	fields := logrus.Fields{
		"request":  record.Request,
		"response": record.Response,
	}
	if record.TraceID != "" {
		fields["traceId"] = record.TraceID
	}
	if record.SpanID != "" {
		fields["spanId"] = record.SpanID
	}
	level := s.level
	if level < logrus.ErrorLevel {
		// Panic and Fatal are capped to Error.
		level = logrus.ErrorLevel
	}
	s.logger.WithFields(fields).Log(level, message)
}
