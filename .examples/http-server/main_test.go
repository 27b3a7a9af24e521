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

package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// lockedBuffer serializes writes from server goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

// TestHTTPServerLogsFilteredExchange covers the HTTP server example by
// issuing requests and validating the emitted access-log entries.
func TestHTTPServerLogsFilteredExchange(t *testing.T) {
	t.Parallel()

	var buf lockedBuffer
	handler, emitter, err := newServer(slog.New(slog.NewJSONHandler(&buf, nil)))
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	for _, path := range []string{"/path", "/healthz"} {
		req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
		if err != nil {
			t.Fatalf("NewRequest: %v", err)
		}
		req.Host = "example.com"
		req.Header.Set("X-Foo", "bar")
		resp, err := ts.Client().Do(req)
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
		_ = resp.Body.Close()
	}

	entries := decodeEntries(t, buf.Bytes())
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1: %v", len(entries), entries)
	}
	entry := entries[0]
	if entry["msg"] != "GET example.com/path 200" {
		t.Fatalf("msg = %v", entry["msg"])
	}

	request, _ := entry["request"].(map[string]any)
	reqHeaders, _ := request["headers"].(map[string]any)
	if _, ok := reqHeaders["x-foo"]; ok {
		t.Fatalf("x-foo should be filtered: %v", reqHeaders)
	}
	response, _ := entry["response"].(map[string]any)
	resHeaders, _ := response["headers"].(map[string]any)
	if resHeaders["x-bar"] != "baz" {
		t.Fatalf("response headers = %v", resHeaders)
	}

	if stats := emitter.Stats(); stats.Emitted != 1 || stats.Skipped != 1 {
		t.Fatalf("Stats() = %+v", stats)
	}
}

func decodeEntries(t *testing.T, content []byte) []map[string]any {
	t.Helper()

	content = bytes.TrimSpace(content)
	if len(content) == 0 {
		t.Fatalf("expected log output")
	}

	lines := bytes.Split(content, []byte("\n"))
	entries := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("unmarshal log line: %v", err)
		}
		entries = append(entries, entry)
	}
	return entries
}
