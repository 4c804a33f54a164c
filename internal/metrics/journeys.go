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

var JourneyEventsCounter *prometheus.CounterVec
var NotifyFailuresCounter *prometheus.CounterVec

var MetricsJourneyEvents = "xt_journey_events_total"
var MetricsNotifyFailures = "xt_notify_failures_total"

func InitJourneyMetrics() {
	JourneyEventsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricsJourneyEvents,
		Help: "Number of journey events delivered to the notifier",
	}, []string{"type"})
	NotifyFailuresCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricsNotifyFailures,
		Help: "Number of journey events the notifier failed to deliver",
	}, []string{"type"})
}

func RegisterJourneyMetrics() {
	registry.MustRegister(JourneyEventsCounter)
	registry.MustRegister(NotifyFailuresCounter)
}
