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
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// TimestampLayout is the ISO-8601 layout used for record timestamps. Instants
// are rendered in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// RawExchange is the host-provided view of one completed request/response
// cycle. The core only reads it; header maps are never modified.
type RawExchange struct {
	// Method is the request method, for example "GET".
	Method string

	// URL is the request target as received, including the query string.
	// When empty, Path is used instead.
	URL string

	// Path is the request path. It is only consulted when URL is empty.
	Path string

	// RequestHeader holds the request headers, including Host.
	RequestHeader http.Header

	// StatusCode is the response status reported by the host. It is passed
	// through verbatim.
	StatusCode int

	// ResponseHeader holds the response headers as sent.
	ResponseHeader http.Header

	// Received is the instant the host accepted the request.
	Received time.Time

	// Completed is the instant the response finished. A zero value means
	// "now" at normalisation time.
	Completed time.Time

	// Request is the originating host request, if any. It is made available
	// to loggability predicates and is never logged.
	Request *http.Request

	// SpanContext is the trace span active for the request, if any.
	SpanContext trace.SpanContext
}

// target resolves the URL to log, preferring URL over Path.
func (ex *RawExchange) target() string {
	if ex.URL != "" {
		return ex.URL
	}
	return ex.Path
}

// LoggableRequest is the normalised request view written to the log sink.
type LoggableRequest struct {
	Method    string  `json:"method"`
	URL       string  `json:"url"`
	Headers   Headers `json:"headers"`
	Timestamp string  `json:"timestamp"`
}

// LoggableResponse is the normalised response view written to the log sink.
type LoggableResponse struct {
	StatusCode   int     `json:"statusCode"`
	Headers      Headers `json:"headers"`
	Timestamp    string  `json:"timestamp"`
	ResponseTime int64   `json:"responseTime"`

	// Clamped is set when the measured response time was negative and was
	// reported as zero instead.
	Clamped bool `json:"-"`
}

// Normalize converts a RawExchange into its request and response views.
//
// The request timestamp is the received instant. The response timestamp is
// the completion instant, or now() when the exchange carries none. Response
// time is completion minus reception in whole milliseconds; negative values
// are reported as 0 with Clamped set. Header maps are copied into fresh
// lower-cased views before any policy is applied.
func Normalize(ex RawExchange, now func() time.Time) (LoggableRequest, LoggableResponse) {
	completed := ex.Completed
	if completed.IsZero() {
		if now == nil {
			now = time.Now
		}
		completed = now()
	}

	req := LoggableRequest{
		Method:    ex.Method,
		URL:       ex.target(),
		Headers:   HeadersFromHTTP(ex.RequestHeader),
		Timestamp: formatTimestamp(ex.Received),
	}

	elapsed, clamped := responseTime(ex.Received, completed)
	res := LoggableResponse{
		StatusCode:   ex.StatusCode,
		Headers:      HeadersFromHTTP(ex.ResponseHeader),
		Timestamp:    formatTimestamp(completed),
		ResponseTime: elapsed,
		Clamped:      clamped,
	}
	return req, res
}

// responseTime returns the whole milliseconds between received and completed,
// clamped at zero.
func responseTime(received, completed time.Time) (ms int64, clamped bool) {
	d := completed.Sub(received)
	if d < 0 {
		return 0, true
	}
	return d.Milliseconds(), false
}

// formatTimestamp renders t with TimestampLayout in UTC.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
