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

package telemetry

import (
	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
)

// Event is the closed set of things the matching engine reports for instrumentation
type Event interface {
	telemetryEvent()
}

// Notified is a journey event handed to the notifier without error
type Notified struct {
	Type xcmtypes.JourneyEventType
}

// NotifyFailed is a journey event the notifier returned an error (or panicked) for
type NotifyFailed struct {
	Type xcmtypes.JourneyEventType
}

// Persisted is a fragment written to wait for its counterpart
type Persisted struct {
	Namespace kvstore.Namespace
}

// Matched is a stored fragment that was found by its counterpart
type Matched struct {
	Namespace kvstore.Namespace
}

// Swept is a fragment removed by the janitor on expiry
type Swept struct {
	Namespace kvstore.Namespace
}

// HintIndexed is a message data hint added to the topic id index
type HintIndexed struct{}

func (Notified) telemetryEvent()     {}
func (NotifyFailed) telemetryEvent() {}
func (Persisted) telemetryEvent()    {}
func (Matched) telemetryEvent()      {}
func (Swept) telemetryEvent()        {}
func (HintIndexed) telemetryEvent()  {}

// Observer receives telemetry. Implementations must be cheap and must not block.
type Observer interface {
	Observe(ev Event)
}

// ObserverFunc adapts a function to an Observer
type ObserverFunc func(ev Event)

func (f ObserverFunc) Observe(ev Event) {
	f(ev)
}

type noop struct{}

func (noop) Observe(Event) {}

// Noop discards everything
var Noop Observer = noop{}
