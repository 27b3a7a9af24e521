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

// Command http-server exposes an HTTP handler whose completed exchanges are
// written as filtered JSON access-log entries.
//
// This example is both documentation, and a test for `slogaccess`.
package main

import (
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/pjscruggs/slogaccess"
	"github.com/pjscruggs/slogaccess/slogaccesshttp"
)

// newServer wires the access-log middleware in front of the demo routes.
func newServer(logger *slog.Logger) (http.Handler, *slogaccess.Emitter, error) {
	emitter, err := slogaccess.New(
		slogaccess.NewSlogLogger(logger),
		slogaccess.WithWhitelistRequestHeaders("host", "accept", "accept-language"),
		slogaccess.WithBlacklistResponseHeaders("content-type", "content-language"),
		slogaccess.WithLoggable(slogaccess.SkipPaths("/healthz")),
		slogaccess.WithDiagnosticLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/path", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Bar", "baz")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Language", "es-ES")
		_, _ = io.WriteString(w, "Hola mundo")
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return slogaccesshttp.Middleware(emitter)(mux), emitter, nil
}

// main starts the HTTP server example with the access-log middleware.
func main() {
	slogaccesshttp.EnsurePropagation()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	handler, _, err := newServer(logger)
	if err != nil {
		log.Fatalf("failed to create access logger: %v", err)
	}

	if err := http.ListenAndServe(":8080", handler); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
	}
}
