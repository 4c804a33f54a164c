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
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var mutex sync.Mutex
var registry *prometheus.Registry
var apiInstrumentation *Instrumentation

// Registry returns the registry all tracker metrics are registered in, creating it on first use
func Registry() *prometheus.Registry {
	mutex.Lock()
	defer mutex.Unlock()
	if registry == nil {
		initMetricsCollectors()
		registry = prometheus.NewRegistry()
		registerMetricsCollectors()
	}
	return registry
}

// GetAPIServerInstrumentation returns the HTTP middleware for the ingestion API
func GetAPIServerInstrumentation() *Instrumentation {
	reg := Registry()
	mutex.Lock()
	defer mutex.Unlock()
	if apiInstrumentation == nil {
		apiInstrumentation = NewInstrumentation("xt_apiserver", "ingest", reg)
	}
	return apiInstrumentation
}

// Clear drops the registry, so tests can start again from zero
func Clear() {
	mutex.Lock()
	defer mutex.Unlock()
	registry = nil
	apiInstrumentation = nil
}

func initMetricsCollectors() {
	InitJourneyMetrics()
	InitFragmentMetrics()
}

func registerMetricsCollectors() {
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	RegisterJourneyMetrics()
	RegisterFragmentMetrics()
}
