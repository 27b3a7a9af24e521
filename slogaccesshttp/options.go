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

package slogaccesshttp

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const envEnableOTel = "SLOGACCESS_HTTP_OTEL"

// ErrorHandler receives errors returned by the exchange handler, for example
// a failing loggability predicate.
type ErrorHandler func(*http.Request, error)

// Option configures the middleware.
type Option func(*config)

type config struct {
	enableOTel        bool
	tracerProvider    trace.TracerProvider
	propagators       propagation.TextMapPropagator
	propagatorsSet    bool
	spanNameFormatter func(string, *http.Request) string
	errorHandler      ErrorHandler
	now               func() time.Time
}

// defaultConfig returns the baseline middleware configuration.
func defaultConfig() *config {
	return &config{
		errorHandler: defaultErrorHandler,
		now:          time.Now,
	}
}

// applyOptions layers environment settings and opts over defaultConfig.
// Invalid environment values are ignored.
func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	if raw, ok := os.LookupEnv(envEnableOTel); ok {
		if v, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			cfg.enableOTel = v
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// defaultErrorHandler reports handler errors through slog.Default().
func defaultErrorHandler(r *http.Request, err error) {
	slog.Default().ErrorContext(r.Context(), "access log failed",
		slog.String("error", err.Error()),
		slog.String("http.method", r.Method),
		slog.String("http.target", r.URL.Path),
	)
}

// WithOTel enables or disables otelhttp server instrumentation around the
// logged handler. It is disabled by default.
func WithOTel(enabled bool) Option {
	return func(cfg *config) {
		cfg.enableOTel = enabled
	}
}

// WithTracerProvider installs the OpenTelemetry tracer provider used when
// composing the otelhttp handler.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *config) {
		cfg.tracerProvider = tp
	}
}

// WithPropagators supplies the TextMapPropagator used to extract incoming
// trace context. When omitted, otel.GetTextMapPropagator() is used.
func WithPropagators(p propagation.TextMapPropagator) Option {
	return func(cfg *config) {
		cfg.propagators = p
		cfg.propagatorsSet = true
	}
}

// WithSpanNameFormatter customizes otelhttp span naming.
func WithSpanNameFormatter(formatter func(string, *http.Request) string) Option {
	return func(cfg *config) {
		cfg.spanNameFormatter = formatter
	}
}

// WithErrorHandler sets the callback for exchange handler errors. A nil
// handler restores the default, which logs through slog.Default().
func WithErrorHandler(fn ErrorHandler) Option {
	return func(cfg *config) {
		if fn == nil {
			cfg.errorHandler = defaultErrorHandler
			return
		}
		cfg.errorHandler = fn
	}
}

// WithClock overrides the clock used for received and completed instants.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) {
		if now == nil {
			cfg.now = time.Now
			return
		}
		cfg.now = now
	}
}
