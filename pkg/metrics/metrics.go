/*
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

// Package metrics holds the Prometheus collectors the autoscale loop and
// the validator record against, grounded on the teacher's batcher metrics
// (pkg/batcher/metrics.go) but wired to the plain prometheus client since
// this module has no controller-runtime metrics registry to hook into.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "autoscale"

var (
	// FleetModifyTotal counts fleet target-capacity modifications by pool
	// and direction ("up" or "down").
	FleetModifyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fleet_modify_total",
		Help:      "Number of spot fleet target-capacity modifications issued.",
	}, []string{"pool", "direction"})

	// SlaveTerminationsTotal counts graceful-terminate attempts by pool and
	// outcome ("terminated", "drain_failed", "capacity_set_failed",
	// "terminate_failed").
	SlaveTerminationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slave_terminations_total",
		Help:      "Number of slave termination attempts by outcome.",
	}, []string{"pool", "outcome"})

	// DownscaleAbortedTotal counts downscale passes aborted mid-flight by
	// pool and reason.
	DownscaleAbortedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "downscale_aborted_total",
		Help:      "Number of downscale passes aborted before reaching target capacity.",
	}, []string{"pool", "reason"})

	// LoopDurationSeconds observes how long one autoscale tick takes per
	// pool.
	LoopDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "loop_duration_seconds",
		Help:      "Duration of one autoscale tick for a pool.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"pool"})

	// ValidatorRejectionsTotal counts job-config validation failures by the
	// offending parameter name.
	ValidatorRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validator_rejections_total",
		Help:      "Number of job-config validation failures by offending parameter.",
	}, []string{"param"})
)

// MustRegister registers all collectors in this package against reg. Call
// once at process startup.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(FleetModifyTotal, SlaveTerminationsTotal, DownscaleAbortedTotal, LoopDurationSeconds, ValidatorRejectionsTotal)
}
