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
	"github.com/kaleido-io/xcmtracker/internal/telemetry"
)

type observer struct{}

// NewObserver returns a telemetry observer that counts into the prometheus registry
func NewObserver() telemetry.Observer {
	Registry()
	return &observer{}
}

func (o *observer) Observe(ev telemetry.Event) {
	switch e := ev.(type) {
	case telemetry.Notified:
		JourneyEventsCounter.WithLabelValues(string(e.Type)).Inc()
	case telemetry.NotifyFailed:
		NotifyFailuresCounter.WithLabelValues(string(e.Type)).Inc()
	case telemetry.Persisted:
		FragmentsPersistedCounter.WithLabelValues(string(e.Namespace)).Inc()
	case telemetry.Matched:
		FragmentsMatchedCounter.WithLabelValues(string(e.Namespace)).Inc()
	case telemetry.Swept:
		FragmentsSweptCounter.WithLabelValues(string(e.Namespace)).Inc()
	case telemetry.HintIndexed:
		HintsIndexedCounter.Inc()
	}
}
