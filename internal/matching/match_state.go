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

package matching

import (
	"context"
	"time"

	"github.com/kaleido-io/xcmtracker/internal/janitor"
	"github.com/kaleido-io/xcmtracker/internal/telemetry"
	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
)

// matchState builds up the writes and notifications of one engine call. Reads see the writes
// already made in the call. Everything is flushed in one store batch, and only then notified.
type matchState struct {
	ctx       context.Context
	scope     string
	store     kvstore.Plugin
	pending   map[string]*kvstore.Op
	ops       []*kvstore.Op
	tasks     []*janitor.Task
	events    []*xcmtypes.JourneyEvent
	telemetry []telemetry.Event
}

func (e *engine) newMatchState(ctx context.Context, scope string) *matchState {
	return &matchState{
		ctx:     ctx,
		scope:   scope,
		store:   e.store,
		pending: make(map[string]*kvstore.Op),
	}
}

func pendingKey(ns kvstore.Namespace, key string) string {
	return string(ns) + "|" + key
}

func (ms *matchState) get(ns kvstore.Namespace, key string) ([]byte, error) {
	if op, ok := ms.pending[pendingKey(ns, key)]; ok {
		if op.Type == kvstore.OpTypeDel {
			return nil, nil
		}
		return op.Value, nil
	}
	return ms.store.Get(ms.ctx, ns, key)
}

func (ms *matchState) put(ns kvstore.Namespace, key string, value []byte, ttl time.Duration) {
	op := kvstore.PutOp(ns, key, value)
	ms.pending[pendingKey(ns, key)] = op
	ms.ops = append(ms.ops, op)
	if ttl > 0 {
		ms.tasks = append(ms.tasks, &janitor.Task{Namespace: ns, Key: key, Expiry: ttl})
		ms.observe(telemetry.Persisted{Namespace: ns})
	}
}

func (ms *matchState) del(ns kvstore.Namespace, key string) {
	op := kvstore.DelOp(ns, key)
	ms.pending[pendingKey(ns, key)] = op
	ms.ops = append(ms.ops, op)
}

// include adds writes prepared outside the call to its batch
func (ms *matchState) include(ops ...*kvstore.Op) {
	for _, op := range ops {
		ms.pending[pendingKey(op.Namespace, op.Key)] = op
		ms.ops = append(ms.ops, op)
	}
}

func (ms *matchState) observe(ev telemetry.Event) {
	ms.telemetry = append(ms.telemetry, ev)
}

func (ms *matchState) matched(ns kvstore.Namespace) {
	ms.observe(telemetry.Matched{Namespace: ns})
}

// emit queues a journey event for the notifier, sharing the journey context but never its
// destination, which each event fills in separately
func (ms *matchState) emit(t xcmtypes.JourneyEventType, journey *xcmtypes.Journey, waypoint *xcmtypes.Waypoint) *xcmtypes.JourneyEvent {
	ev := xcmtypes.NewJourneyEvent(t, ms.scope, journey, waypoint)
	if journey.Destination != nil {
		dest := *journey.Destination
		ev.Destination = &dest
	}
	ms.events = append(ms.events, ev)
	return ev
}
