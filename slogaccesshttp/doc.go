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

// Package slogaccesshttp connects net/http servers to slogaccess.
//
// [Middleware] observes every request passing through it and, once the
// wrapped handler returns, hands a [slogaccess.RawExchange] to an
// [slogaccess.ExchangeHandler] such as [slogaccess.Emitter]:
//
//	emitter, err := slogaccess.New(slogaccess.NewSlogLogger(logger))
//	if err != nil {
//	    log.Fatalf("create access logger: %v", err)
//	}
//	slogaccesshttp.EnsurePropagation()
//	handler := slogaccesshttp.Middleware(emitter)(mux)
//
// Incoming trace context (W3C traceparent, or X-Cloud-Trace-Context once
// [EnsurePropagation] has run) is attached to the exchange so entries carry
// traceId and spanId. [WithOTel] additionally wraps the handler with otelhttp
// so a server span is started for every request.
package slogaccesshttp
