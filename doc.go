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

// Package slogaccess writes one structured, header-filtered access log entry
// per completed HTTP exchange.
//
// A host adapter (see [github.com/pjscruggs/slogaccess/slogaccesshttp] for
// net/http) captures each finished request/response cycle as a [RawExchange]
// and hands it to [Emitter.OnComplete]. The emitter then:
//
//  1. asks the configured [LoggableFunc] whether the exchange should be
//     logged at all;
//  2. normalises the exchange into a [LoggableRequest] and a
//     [LoggableResponse] (lower-cased header maps, ISO-8601 timestamps,
//     response time in whole milliseconds, never negative);
//  3. filters request and response headers through their [HeaderPolicy]
//     (a whitelist keeps only the listed names; a blacklist removes names and
//     always wins over the whitelist);
//  4. builds a summary line such as "GET example.com/path 200";
//  5. calls [Logger.Info] with the [AccessLogRecord] and the summary line.
//
// The host in the summary line is read from the request headers before the
// request policy is applied. The structured record obeys the policy strictly.
//
// # Sinks
//
// [NewSlogLogger] adapts any [log/slog] logger. The
// [github.com/pjscruggs/slogaccess/slogaccesslogrus] package adapts logrus.
// Any other sink only has to implement [Logger].
//
// # Configuration
//
// Options passed to [New] override the following environment variables:
//
//   - SLOGACCESS_POLICY_FILE: path to a YAML policy document, see
//     [ParsePolicies].
//   - SLOGACCESS_WHITELIST_REQUEST_HEADERS, SLOGACCESS_BLACKLIST_REQUEST_HEADERS,
//     SLOGACCESS_WHITELIST_RESPONSE_HEADERS,
//     SLOGACCESS_BLACKLIST_RESPONSE_HEADERS: comma separated header names.
//
// # Quick Start
//
//	emitter, err := slogaccess.New(
//	    slogaccess.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil))),
//	    slogaccess.WithBlacklistRequestHeaders("authorization", "cookie"),
//	    slogaccess.WithBlacklistResponseHeaders("set-cookie"),
//	)
//	if err != nil {
//	    log.Fatalf("create access logger: %v", err)
//	}
//
//	handler := slogaccesshttp.Middleware(emitter)(mux)
//	log.Fatal(http.ListenAndServe(":8080", handler))
//
// # Observability
//
// [Emitter.Stats] reports how many exchanges were emitted, skipped or had
// their response time clamped. The same counters are published through the
// OpenTelemetry meter provider and, via [NewCollector], to Prometheus.
package slogaccess
