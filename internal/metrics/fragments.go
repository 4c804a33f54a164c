// Copyright © 2021 Kaleido, Inc.
//
// SPDX-License-Identifier: Apache-2.0
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

var FragmentsPersistedCounter *prometheus.CounterVec
var FragmentsMatchedCounter *prometheus.CounterVec
var FragmentsSweptCounter *prometheus.CounterVec
var HintsIndexedCounter prometheus.Counter

var MetricsFragmentsPersisted = "xt_fragments_persisted_total"
var MetricsFragmentsMatched = "xt_fragments_matched_total"
var MetricsFragmentsSwept = "xt_fragments_swept_total"
var MetricsHintsIndexed = "xt_hints_indexed_total"

func InitFragmentMetrics() {
	FragmentsPersistedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricsFragmentsPersisted,
		Help: "Number of fragments stored to wait for a counterpart",
	}, []string{"ns"})
	FragmentsMatchedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricsFragmentsMatched,
		Help: "Number of stored fragments found by their counterpart",
	}, []string{"ns"})
	FragmentsSweptCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricsFragmentsSwept,
		Help: "Number of fragments removed on expiry",
	}, []string{"ns"})
	HintsIndexedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricsHintsIndexed,
		Help: "Number of message data hints indexed",
	})
}

func RegisterFragmentMetrics() {
	registry.MustRegister(FragmentsPersistedCounter)
	registry.MustRegister(FragmentsMatchedCounter)
	registry.MustRegister(FragmentsSweptCounter)
	registry.MustRegister(HintsIndexedCounter)
}
