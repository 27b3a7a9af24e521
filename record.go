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
	"sort"
)

// AccessLogRecord is the structured payload emitted once per exchange.
type AccessLogRecord struct {
	Request  LoggableRequest  `json:"request"`
	Response LoggableResponse `json:"response"`

	// TraceID and SpanID correlate the entry with the active trace. They are
	// empty when the exchange carried no valid span context.
	TraceID string `json:"traceId,omitempty"`
	SpanID  string `json:"spanId,omitempty"`
}

// LogValue renders the record as nested slog groups.
func (r AccessLogRecord) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Any("request", r.Request),
		slog.Any("response", r.Response),
	}
	if r.TraceID != "" {
		attrs = append(attrs, slog.String("traceId", r.TraceID))
	}
	if r.SpanID != "" {
		attrs = append(attrs, slog.String("spanId", r.SpanID))
	}
	return slog.GroupValue(attrs...)
}

// LogValue renders the request view as a slog group.
func (r LoggableRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("method", r.Method),
		slog.String("url", r.URL),
		slog.Any("headers", r.Headers),
		slog.String("timestamp", r.Timestamp),
	)
}

// LogValue renders the response view as a slog group.
func (r LoggableResponse) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("statusCode", r.StatusCode),
		slog.Any("headers", r.Headers),
		slog.String("timestamp", r.Timestamp),
		slog.Int64("responseTime", r.ResponseTime),
	)
}

// LogValue renders headers as a group with keys in sorted order so text
// handlers produce stable output.
func (h Headers) LogValue() slog.Value {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.String(k, h[k]))
	}
	return slog.GroupValue(attrs...)
}
