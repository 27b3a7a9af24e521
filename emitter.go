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
	"fmt"
	"log/slog"
	"time"
)

// ExchangeHandler is notified once per completed exchange. Host adapters
// register one with their completion hook.
type ExchangeHandler interface {
	OnComplete(ctx context.Context, ex RawExchange) error
}

// ExchangeHandlerFunc adapts a function to ExchangeHandler.
type ExchangeHandlerFunc func(ctx context.Context, ex RawExchange) error

// OnComplete calls f(ctx, ex).
func (f ExchangeHandlerFunc) OnComplete(ctx context.Context, ex RawExchange) error {
	return f(ctx, ex)
}

// Emitter turns completed exchanges into access log entries. It holds only
// configuration fixed at construction and atomic counters, so a single
// Emitter may be shared by concurrent requests.
type Emitter struct {
	logger      Logger
	request     HeaderPolicy
	response    HeaderPolicy
	loggable    LoggableFunc
	now         func() time.Time
	diagnostics *slog.Logger
	counters    *counters
}

var _ ExchangeHandler = (*Emitter)(nil)

// New builds an Emitter writing to logger. Environment variables are applied
// first (see the package documentation) and opts override them.
func New(logger Logger, opts ...Option) (*Emitter, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}
	cfg, err := loadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return &Emitter{
		logger:      logger,
		request:     cfg.request,
		response:    cfg.response,
		loggable:    cfg.loggable,
		now:         cfg.now,
		diagnostics: cfg.diagnostics,
		counters:    newCounters(cfg.meterProvider),
	}, nil
}

// RequestPolicy returns the request header policy in effect.
func (e *Emitter) RequestPolicy() HeaderPolicy { return e.request }

// ResponsePolicy returns the response header policy in effect.
func (e *Emitter) ResponsePolicy() HeaderPolicy { return e.response }

// Stats returns a snapshot of the emitter counters.
func (e *Emitter) Stats() Stats { return e.counters.snapshot() }

// OnComplete handles one completed exchange. The predicate runs first; when
// it declines nothing else happens. Otherwise the exchange is normalised,
// both header sets are filtered through their policies, the summary line is
// built and the Logger is called exactly once.
//
// A predicate error is returned wrapped and no entry is written.
func (e *Emitter) OnComplete(ctx context.Context, ex RawExchange) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ok, err := e.loggable(ctx, &ex)
	if err != nil {
		e.counters.incPredicateErrors(ctx)
		return fmt.Errorf("evaluate loggable predicate: %w", err)
	}
	if !ok {
		e.counters.incSkipped(ctx)
		return nil
	}

	record, line := e.Build(ex)
	if record.Response.Clamped {
		e.counters.incClamped(ctx)
		e.reportClamped(ctx, ex, line)
	}

	e.logger.Info(record, line)
	e.counters.incEmitted(ctx)
	return nil
}

// Build produces the filtered record and summary line for ex without
// consulting the predicate or writing anything.
func (e *Emitter) Build(ex RawExchange) (AccessLogRecord, string) {
	req, res := Normalize(ex, e.now)

	// The summary reads host before filtering so it does not depend on the
	// request policy.
	line := FormatLine(req, res, req.Headers.Get(hostHeader))

	req.Headers = e.request.Apply(req.Headers)
	res.Headers = e.response.Apply(res.Headers)

	record := AccessLogRecord{Request: req, Response: res}
	if sc := ex.SpanContext; sc.IsValid() {
		record.TraceID = sc.TraceID().String()
		record.SpanID = sc.SpanID().String()
	}
	return record, line
}

// reportClamped logs a clamped response time to the diagnostic logger.
func (e *Emitter) reportClamped(ctx context.Context, ex RawExchange, line string) {
	if e.diagnostics == nil {
		return
	}
	e.diagnostics.LogAttrs(ctx, slog.LevelWarn, "negative response time clamped to zero",
		slog.String("exchange", line),
		slog.Time("received", ex.Received),
		slog.Time("completed", ex.Completed),
	)
}
