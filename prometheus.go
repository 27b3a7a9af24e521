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

import "github.com/prometheus/client_golang/prometheus"

var (
	emittedDesc = prometheus.NewDesc(
		"slogaccess_exchanges_emitted_total",
		"Completed exchanges handed to the access log sink.",
		nil, nil,
	)
	skippedDesc = prometheus.NewDesc(
		"slogaccess_exchanges_skipped_total",
		"Completed exchanges rejected by the loggability predicate.",
		nil, nil,
	)
	clampedDesc = prometheus.NewDesc(
		"slogaccess_response_time_clamped_total",
		"Exchanges whose negative response time was reported as zero.",
		nil, nil,
	)
	predicateErrorsDesc = prometheus.NewDesc(
		"slogaccess_predicate_errors_total",
		"Loggability predicate calls that returned an error.",
		nil, nil,
	)
)

type collector struct {
	emitter *Emitter
}

// NewCollector exposes the emitter counters as Prometheus metrics. Register
// the result with a prometheus.Registerer of your choice.
func NewCollector(e *Emitter) prometheus.Collector {
	return &collector{emitter: e}
}

// Describe implements prometheus.Collector.
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- emittedDesc
	ch <- skippedDesc
	ch <- clampedDesc
	ch <- predicateErrorsDesc
}

// Collect implements prometheus.Collector.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	if c.emitter == nil {
		return
	}
	s := c.emitter.Stats()
	ch <- prometheus.MustNewConstMetric(emittedDesc, prometheus.CounterValue, float64(s.Emitted))
	ch <- prometheus.MustNewConstMetric(skippedDesc, prometheus.CounterValue, float64(s.Skipped))
	ch <- prometheus.MustNewConstMetric(clampedDesc, prometheus.CounterValue, float64(s.Clamped))
	ch <- prometheus.MustNewConstMetric(predicateErrorsDesc, prometheus.CounterValue, float64(s.PredicateErrors))
}
