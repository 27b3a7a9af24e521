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

package slogaccess_test

import (
	"net/http"
	"sync"
	"time"

	"github.com/pjscruggs/slogaccess"
)

type loggedEntry struct {
	record  slogaccess.AccessLogRecord
	message string
}

// captureLogger records every Info call for later inspection.
type captureLogger struct {
	mu      sync.Mutex
	entries []loggedEntry
}

// Info implements slogaccess.Logger.
func (c *captureLogger) Info(record slogaccess.AccessLogRecord, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, loggedEntry{record: record, message: message})
}

// Entries returns a copy of the recorded calls.
func (c *captureLogger) Entries() []loggedEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]loggedEntry(nil), c.entries...)
}

// scenarioExchange returns the GET /path exchange used by the end-to-end
// scenarios, with the given extra request headers.
func scenarioExchange(extra map[string]string) slogaccess.RawExchange {
	reqHeader := http.Header{}
	reqHeader.Set("Host", "example.com")
	reqHeader.Set("X-Foo", "bar")
	for k, v := range extra {
		reqHeader.Set(k, v)
	}
	respHeader := http.Header{}
	respHeader.Set("X-Bar", "baz")
	respHeader.Set("Content-Type", "text/plain; charset=utf-8")
	respHeader.Set("Content-Language", "es-ES")

	received := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	return slogaccess.RawExchange{
		Method:         http.MethodGet,
		URL:            "/path",
		Path:           "/path",
		RequestHeader:  reqHeader,
		StatusCode:     http.StatusOK,
		ResponseHeader: respHeader,
		Received:       received,
		Completed:      received.Add(37 * time.Millisecond),
	}
}
