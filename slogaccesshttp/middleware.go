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
	"bufio"
	"context"
	"io"
	"net"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/pjscruggs/slogaccess"
)

const instrumentationName = "github.com/pjscruggs/slogaccess/slogaccesshttp"

// Middleware returns an http.Handler middleware that reports every completed
// request to handler, usually a *slogaccess.Emitter.
//
// The received instant is taken before next runs and the completion instant
// after it returns. The response status defaults to 200 when next never
// writes one. If next panics the exchange is still reported, with status 500
// when no header had been written, and the panic is re-raised.
func Middleware(handler slogaccess.ExchangeHandler, opts ...Option) func(http.Handler) http.Handler {
	cfg := applyOptions(opts)

	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		if handler == nil {
			return next
		}

		loggingHandler := buildLoggingHandler(cfg, handler, next)
		handlerChain := wrapWithOTel(cfg, loggingHandler)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if newCtx := ensureSpanContext(ctx, r, cfg); newCtx != ctx {
				r = r.WithContext(newCtx)
			}
			handlerChain.ServeHTTP(w, r)
		})
	}
}

// buildLoggingHandler wraps next so that each request is reported once it
// completes.
func buildLoggingHandler(cfg *config, handler slogaccess.ExchangeHandler, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received := cfg.now()
		recorder := wrapResponseWriter(w)

		defer func() {
			p := recover()
			status := recorder.Status()
			if p != nil && !recorder.wroteHeader {
				status = http.StatusInternalServerError
			}
			ex := newRawExchange(r, recorder.Header(), status)
			ex.Received = received
			ex.Completed = cfg.now()
			if err := handler.OnComplete(r.Context(), ex); err != nil {
				cfg.errorHandler(r, err)
			}
			if p != nil {
				panic(p)
			}
		}()

		next.ServeHTTP(recorder, r)
	})
}

// newRawExchange captures the request and response metadata of a finished
// request. Header maps are cloned so later writes by the server do not leak
// into the exchange.
func newRawExchange(r *http.Request, respHeader http.Header, status int) slogaccess.RawExchange {
	reqHeader := r.Header.Clone()
	if reqHeader == nil {
		reqHeader = make(http.Header)
	}
	// net/http moves Host out of the header map.
	if r.Host != "" && reqHeader.Get("Host") == "" {
		reqHeader.Set("Host", r.Host)
	}

	ex := slogaccess.RawExchange{
		Method:         r.Method,
		RequestHeader:  reqHeader,
		StatusCode:     status,
		ResponseHeader: respHeader.Clone(),
		Request:        r,
		SpanContext:    trace.SpanContextFromContext(r.Context()),
	}
	if r.URL != nil {
		ex.URL = r.URL.RequestURI()
		ex.Path = r.URL.Path
	}
	return ex
}

// wrapWithOTel wraps handler with otelhttp middleware when enabled.
func wrapWithOTel(cfg *config, handler http.Handler) http.Handler {
	if !cfg.enableOTel {
		return handler
	}
	return otelhttp.NewHandler(handler, instrumentationName, otelOptions(cfg)...)
}

// otelOptions builds OpenTelemetry handler options from configuration.
func otelOptions(cfg *config) []otelhttp.Option {
	var otelOpts []otelhttp.Option
	if cfg.tracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(cfg.tracerProvider))
	}
	if cfg.propagatorsSet && cfg.propagators != nil {
		otelOpts = append(otelOpts, otelhttp.WithPropagators(cfg.propagators))
	}
	if cfg.spanNameFormatter != nil {
		otelOpts = append(otelOpts, otelhttp.WithSpanNameFormatter(cfg.spanNameFormatter))
	}
	return otelOpts
}

// ensureSpanContext returns ctx unchanged when it already carries a span and
// otherwise tries to extract a remote span from the request headers.
func ensureSpanContext(ctx context.Context, r *http.Request, cfg *config) context.Context {
	if trace.SpanContextFromContext(ctx).IsValid() {
		return ctx
	}
	propagator := cfg.propagators
	if propagator == nil {
		propagator = otel.GetTextMapPropagator()
	}
	if propagator == nil {
		return ctx
	}
	extracted := propagator.Extract(ctx, propagation.HeaderCarrier(r.Header))
	if trace.SpanContextFromContext(extracted).IsValid() {
		return extracted
	}
	return ctx
}

type responseRecorder struct {
	http.ResponseWriter
	status       int
	wroteHeader  bool
	bytesWritten int64
}

// wrapResponseWriter decorates w to capture the response status.
func wrapResponseWriter(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{
		ResponseWriter: w,
		status:         http.StatusOK,
	}
}

// WriteHeader records the status code before delegating to the wrapped writer.
func (rr *responseRecorder) WriteHeader(status int) {
	if rr.wroteHeader {
		rr.ResponseWriter.WriteHeader(status)
		return
	}
	rr.status = status
	rr.ResponseWriter.WriteHeader(status)
	rr.wroteHeader = true
}

// Write records bytes written and forwards the call to the underlying writer.
func (rr *responseRecorder) Write(p []byte) (int, error) {
	if !rr.wroteHeader {
		rr.WriteHeader(http.StatusOK)
	}
	n, err := rr.ResponseWriter.Write(p)
	if n > 0 {
		rr.bytesWritten += int64(n)
	}
	return n, err
}

// ReadFrom streams data from src while tracking bytes written.
func (rr *responseRecorder) ReadFrom(src io.Reader) (int64, error) {
	if !rr.wroteHeader {
		rr.WriteHeader(http.StatusOK)
	}
	var (
		n   int64
		err error
	)
	if rf, ok := rr.ResponseWriter.(io.ReaderFrom); ok {
		n, err = rf.ReadFrom(src)
	} else {
		n, err = io.Copy(rr.ResponseWriter, src)
	}
	if n > 0 {
		rr.bytesWritten += n
	}
	return n, err
}

// Status returns the HTTP status code that was written to the client.
func (rr *responseRecorder) Status() int {
	if rr.status == 0 {
		return http.StatusOK
	}
	return rr.status
}

// BytesWritten reports the cumulative number of bytes sent to the client.
func (rr *responseRecorder) BytesWritten() int64 {
	return rr.bytesWritten
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rr *responseRecorder) Unwrap() http.ResponseWriter {
	return rr.ResponseWriter
}

// Flush forwards the flush request to the underlying ResponseWriter when supported.
func (rr *responseRecorder) Flush() {
	if flusher, ok := rr.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Hijack delegates to the wrapped Hijacker when supported, otherwise returns http.ErrNotSupported.
func (rr *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rr.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Push forwards HTTP/2 push requests when the underlying writer supports http.Pusher.
func (rr *responseRecorder) Push(target string, opts *http.PushOptions) error {
	if pusher, ok := rr.ResponseWriter.(http.Pusher); ok {
		return pusher.Push(target, opts)
	}
	return http.ErrNotSupported
}
