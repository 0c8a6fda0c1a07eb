/*
Copyright 2026 The Vitess Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package optimizer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts what the optimizer does. A nil *Metrics records nothing.
type Metrics struct {
	rulesApplied *prometheus.CounterVec
	passes       prometheus.Counter
	capReached   prometheus.Counter
}

// NewMetrics creates the optimizer metrics and registers them with reg.
// Passing a nil registerer creates unregistered metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		rulesApplied: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "planrewrite",
			Subsystem: "optimizer",
			Name:      "rules_applied_total",
			Help:      "Number of times a rule rewrote a plan node.",
		}, []string{"rule"}),
		passes: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "planrewrite",
			Subsystem: "optimizer",
			Name:      "passes_total",
			Help:      "Number of whole tree passes.",
		}),
		capReached: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "planrewrite",
			Subsystem: "optimizer",
			Name:      "iteration_cap_reached_total",
			Help:      "Number of optimizations stopped by the iteration cap before reaching a fixpoint.",
		}),
	}
}

func (m *Metrics) ruleApplied(rule string) {
	if m == nil {
		return
	}
	m.rulesApplied.WithLabelValues(rule).Inc()
}

func (m *Metrics) pass() {
	if m == nil {
		return
	}
	m.passes.Inc()
}

func (m *Metrics) iterationCapReached() {
	if m == nil {
		return
	}
	m.capReached.Inc()
}
