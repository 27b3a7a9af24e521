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

package slogaccess

import (
	"context"
	"log/slog"
)

// Logger is the sink capability the emitter writes to. Info is called once
// per loggable exchange with the structured record and its summary line.
// Implementations own delivery; the emitter neither waits on nor retries them.
type Logger interface {
	Info(record AccessLogRecord, message string)
}

// LoggerFunc adapts an ordinary function to the Logger interface.
type LoggerFunc func(record AccessLogRecord, message string)

// Info calls f(record, message).
func (f LoggerFunc) Info(record AccessLogRecord, message string) {
	f(record, message)
}

// SlogOption configures the slog-backed Logger returned by NewSlogLogger.
type SlogOption func(*slogLogger)

// WithSlogLevel sets the level access entries are written at. The default is
// slog.LevelInfo.
func WithSlogLevel(level slog.Leveler) SlogOption {
	return func(l *slogLogger) {
		if level == nil {
			l.level = slog.LevelInfo
			return
		}
		l.level = level.Level()
	}
}

// WithSlogContext sets the context passed to the underlying handler. Handlers
// that read values from the context (for example trace correlation) see it on
// every entry.
func WithSlogContext(ctx context.Context) SlogOption {
	return func(l *slogLogger) {
		if ctx != nil {
			l.ctx = ctx
		}
	}
}

type slogLogger struct {
	logger *slog.Logger
	level  slog.Level
	ctx    context.Context
}

// NewSlogLogger returns a Logger that writes each record to logger as
// "request" and "response" groups, plus traceId/spanId when present. A nil
// logger falls back to slog.Default().
func NewSlogLogger(logger *slog.Logger, opts ...SlogOption) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	l := &slogLogger{
		logger: logger,
		level:  slog.LevelInfo,
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Info implements Logger.
func (l *slogLogger) Info(record AccessLogRecord, message string) {
	if !l.logger.Enabled(l.ctx, l.level) {
		return
	}
	attrs := make([]slog.Attr, 0, 4)
	attrs = append(attrs,
		slog.Any("request", record.Request),
		slog.Any("response", record.Response),
	)
	if record.TraceID != "" {
		attrs = append(attrs, slog.String("traceId", record.TraceID))
	}
	if record.SpanID != "" {
		attrs = append(attrs, slog.String("spanId", record.SpanID))
	}
	l.logger.LogAttrs(l.ctx, l.level, message, attrs...)
}
