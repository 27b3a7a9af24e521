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
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
)

const (
	envWhitelistRequestHeaders  = "SLOGACCESS_WHITELIST_REQUEST_HEADERS"
	envBlacklistRequestHeaders  = "SLOGACCESS_BLACKLIST_REQUEST_HEADERS"
	envWhitelistResponseHeaders = "SLOGACCESS_WHITELIST_RESPONSE_HEADERS"
	envBlacklistResponseHeaders = "SLOGACCESS_BLACKLIST_RESPONSE_HEADERS"
	envPolicyFile               = "SLOGACCESS_POLICY_FILE"
)

// Option configures an [Emitter].
type Option func(*config)

type config struct {
	request       HeaderPolicy
	response      HeaderPolicy
	loggable      LoggableFunc
	now           func() time.Time
	diagnostics   *slog.Logger
	meterProvider metric.MeterProvider
}

// defaultConfig returns the configuration used before environment variables
// and functional options are applied.
func defaultConfig() *config {
	return &config{
		loggable: AlwaysLoggable,
		now:      time.Now,
	}
}

// loadConfigFromEnv builds a config from the process environment. A policy
// file named by SLOGACCESS_POLICY_FILE is loaded first; the per-list
// variables then replace the matching lists. A policy file that cannot be
// read or parsed is an error.
func loadConfigFromEnv() (*config, error) {
	cfg := defaultConfig()

	if path, ok := os.LookupEnv(envPolicyFile); ok && strings.TrimSpace(path) != "" {
		policies, err := LoadPolicyFile(strings.TrimSpace(path))
		if err != nil {
			return nil, err
		}
		cfg.request = policies.Request
		cfg.response = policies.Response
	}
	if raw, ok := os.LookupEnv(envWhitelistRequestHeaders); ok {
		cfg.request = cfg.request.withAllow(splitAndClean(raw))
	}
	if raw, ok := os.LookupEnv(envBlacklistRequestHeaders); ok {
		cfg.request = cfg.request.withDeny(splitAndClean(raw))
	}
	if raw, ok := os.LookupEnv(envWhitelistResponseHeaders); ok {
		cfg.response = cfg.response.withAllow(splitAndClean(raw))
	}
	if raw, ok := os.LookupEnv(envBlacklistResponseHeaders); ok {
		cfg.response = cfg.response.withDeny(splitAndClean(raw))
	}
	return cfg, nil
}

// WithRequestHeaderPolicy replaces the request header policy.
func WithRequestHeaderPolicy(p HeaderPolicy) Option {
	return func(cfg *config) {
		cfg.request = p
	}
}

// WithResponseHeaderPolicy replaces the response header policy.
func WithResponseHeaderPolicy(p HeaderPolicy) Option {
	return func(cfg *config) {
		cfg.response = p
	}
}

// WithPolicies replaces both header policies, typically with the result of
// [LoadPolicyFile].
func WithPolicies(p Policies) Option {
	return func(cfg *config) {
		cfg.request = p.Request
		cfg.response = p.Response
	}
}

// WithWhitelistRequestHeaders restricts logged request headers to names.
func WithWhitelistRequestHeaders(names ...string) Option {
	return func(cfg *config) {
		cfg.request = cfg.request.withAllow(names)
	}
}

// WithBlacklistRequestHeaders removes names from logged request headers. It
// takes precedence over the whitelist.
func WithBlacklistRequestHeaders(names ...string) Option {
	return func(cfg *config) {
		cfg.request = cfg.request.withDeny(names)
	}
}

// WithWhitelistResponseHeaders restricts logged response headers to names.
func WithWhitelistResponseHeaders(names ...string) Option {
	return func(cfg *config) {
		cfg.response = cfg.response.withAllow(names)
	}
}

// WithBlacklistResponseHeaders removes names from logged response headers.
// It takes precedence over the whitelist.
func WithBlacklistResponseHeaders(names ...string) Option {
	return func(cfg *config) {
		cfg.response = cfg.response.withDeny(names)
	}
}

// WithLoggable installs the loggability predicate. A nil predicate restores
// [AlwaysLoggable].
func WithLoggable(fn LoggableFunc) Option {
	return func(cfg *config) {
		if fn == nil {
			cfg.loggable = AlwaysLoggable
			return
		}
		cfg.loggable = fn
	}
}

// WithClock overrides the clock used when an exchange has no completion
// instant. Mostly useful in tests.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) {
		if now == nil {
			cfg.now = time.Now
			return
		}
		cfg.now = now
	}
}

// WithDiagnosticLogger sets the logger used to report data-quality anomalies
// such as clamped response times. Diagnostics are dropped when unset.
func WithDiagnosticLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.diagnostics = logger
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider used for emitter
// counters. When unset the global provider is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *config) {
		cfg.meterProvider = mp
	}
}
