// Copyright 2024 PerchDB, Inc.
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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Label constants.
const (
	// LblBase marks an optimize call answered by the base table without
	// considering indexes.
	LblBase = "base"
	// LblHinted marks an optimize call answered by a hinted index.
	LblHinted = "hinted"
	// LblHeuristic marks an optimize call that went through staged
	// selection.
	LblHeuristic = "heuristic"
)

// Optimizer metrics.
var (
	OptimizeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "perch",
			Subsystem: "optimizer",
			Name:      "optimize_total",
			Help:      "Counter of optimize calls by decision path.",
		}, []string{"type"})

	CandidateCountHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "perch",
			Subsystem: "optimizer",
			Name:      "candidate_plans",
			Help:      "Bucketed histogram of candidate plans per optimize call.",
			Buckets:   prometheus.LinearBuckets(1, 1, 16),
		})

	CandidateRejectCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "perch",
			Subsystem: "optimizer",
			Name:      "candidate_rejected_total",
			Help:      "Counter of index candidates dropped during plan building.",
		}, []string{"reason"})
)

// Candidate rejection reasons.
const (
	LblNotActive      = "not_active"
	LblColumnMismatch = "column_mismatch"
	LblColumnMissing  = "column_missing"
)

// RegisterMetrics registers the optimizer metrics.
func RegisterMetrics() {
	prometheus.MustRegister(OptimizeCounter)
	prometheus.MustRegister(CandidateCountHistogram)
	prometheus.MustRegister(CandidateRejectCounter)
}
