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
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/pjscruggs/slogaccess"

// Stats is a point-in-time snapshot of emitter counters.
type Stats struct {
	// Emitted counts exchanges handed to the Logger.
	Emitted uint64
	// Skipped counts exchanges rejected by the loggability predicate.
	Skipped uint64
	// Clamped counts emitted exchanges whose negative response time was
	// reported as zero.
	Clamped uint64
	// PredicateErrors counts predicate calls that returned an error.
	PredicateErrors uint64
}

// counters tracks emitter activity locally and mirrors it to OpenTelemetry.
type counters struct {
	emitted         atomic.Uint64
	skipped         atomic.Uint64
	clamped         atomic.Uint64
	predicateErrors atomic.Uint64

	otelEmitted         metric.Int64Counter
	otelSkipped         metric.Int64Counter
	otelClamped         metric.Int64Counter
	otelPredicateErrors metric.Int64Counter
}

// newCounters registers the emitter instruments with mp, falling back to the
// global provider. Instrument registration errors leave that instrument as a
// no-op; the local counters keep working.
func newCounters(mp metric.MeterProvider) *counters {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName, metric.WithInstrumentationVersion(Version))

	c := &counters{}
	c.otelEmitted = int64Counter(meter, "slogaccess.exchanges.emitted",
		"Completed exchanges handed to the access log sink.")
	c.otelSkipped = int64Counter(meter, "slogaccess.exchanges.skipped",
		"Completed exchanges rejected by the loggability predicate.")
	c.otelClamped = int64Counter(meter, "slogaccess.response_time.clamped",
		"Exchanges whose negative response time was reported as zero.")
	c.otelPredicateErrors = int64Counter(meter, "slogaccess.predicate.errors",
		"Loggability predicate calls that returned an error.")
	return c
}

// int64Counter creates a counter or returns nil when the meter refuses it.
func int64Counter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit("{exchange}"))
	if err != nil {
		return nil
	}
	return c
}

// add increments local by one and mirrors the increment to remote.
func add(ctx context.Context, local *atomic.Uint64, remote metric.Int64Counter) {
	local.Add(1)
	if remote != nil {
		remote.Add(ctx, 1)
	}
}

func (c *counters) incEmitted(ctx context.Context) { add(ctx, &c.emitted, c.otelEmitted) }
func (c *counters) incSkipped(ctx context.Context) { add(ctx, &c.skipped, c.otelSkipped) }
func (c *counters) incClamped(ctx context.Context) { add(ctx, &c.clamped, c.otelClamped) }

func (c *counters) incPredicateErrors(ctx context.Context) {
	add(ctx, &c.predicateErrors, c.otelPredicateErrors)
}

// snapshot copies the local counters.
func (c *counters) snapshot() Stats {
	return Stats{
		Emitted:         c.emitted.Load(),
		Skipped:         c.skipped.Load(),
		Clamped:         c.clamped.Load(),
		PredicateErrors: c.predicateErrors.Load(),
	}
}
