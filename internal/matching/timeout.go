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

	"github.com/kaleido-io/xcmtracker/internal/janitor"
	"github.com/kaleido-io/xcmtracker/internal/log"
	"github.com/kaleido-io/xcmtracker/internal/telemetry"
	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
)

// Sweep disposes of a fragment the janitor expired. Only a send that was never received is
// reported, as a timeout. The janitor holds the engine lock while it calls this. The expired
// deletes go in the same batch as the timeout, so a failed commit leaves the send to be
// swept again.
func (e *engine) Sweep(ctx context.Context, task *janitor.Task, value []byte, expired []*kvstore.Op) error {
	if task.Namespace != kvstore.NamespaceOutbound {
		if err := e.store.Batch(ctx, expired...); err != nil {
			return err
		}
		log.L(ctx).Debugf("Discarded expired %s fragment %s", task.Namespace, task.Key)
		e.observer.Observe(telemetry.Swept{Namespace: task.Namespace})
		return nil
	}

	frag, err := outboundFragments.decode(ctx, task.Key, value)
	if err != nil {
		log.L(ctx).Errorf("Dropping expired fragment: %s", err)
		return e.store.Batch(ctx, expired...)
	}
	ms := e.newMatchState(log.WithLogField(ctx, "scope", frag.Scope), frag.Scope)
	ms.include(expired...)
	// The other keys of the same send would otherwise time out again
	for _, key := range sentKeys(frag.Scope, frag.Sent) {
		if key != task.Key {
			ms.del(kvstore.NamespaceOutbound, key)
		}
	}
	ms.observe(telemetry.Swept{Namespace: task.Namespace})
	log.L(ms.ctx).Infof("Journey from %s to %s timed out", sendingChain(frag.Sent), frag.Sent.FinalStop())
	ms.emit(xcmtypes.JourneyEventTypeTimeout, &frag.Sent.Journey, sendWaypoint(frag.Sent))
	return e.commit(ms)
}
