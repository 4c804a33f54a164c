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

	"github.com/kaleido-io/xcmtracker/internal/log"
	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
)

func (e *engine) OnOutboundMessage(ctx context.Context, scope string, msg *xcmtypes.OutboundMessage, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = e.ttl.outbound
	}
	return e.run(ctx, scope, func(ms *matchState) error {
		return e.outbound(ms, msg, ttl)
	})
}

func (e *engine) outbound(ms *matchState, msg *xcmtypes.OutboundMessage, ttl time.Duration) error {
	l := log.L(ms.ctx)
	from := sendingChain(msg)

	if ids := journeyIDs(&msg.Journey); len(ids) > 0 {
		hop, err := findHop(ms, from, ids)
		if err != nil {
			return err
		}
		if hop != nil {
			l.Debugf("Outbound from %s continues a hop of journey from %s", from, sendingChain(hop.Sent))
			return e.hopOut(ms, hop, msg)
		}
		if isOnward(msg) {
			l.Debugf("Outbound from %s continues a journey from %s not seen yet", from, msg.Origin.ChainID)
			return e.holdOut(ms, msg)
		}
	}

	dup, err := e.alreadySent(ms, msg)
	if err != nil || dup {
		if dup {
			l.Debugf("Outbound from %s already waiting for receipt", from)
		}
		return err
	}

	relay, err := e.claimRelay(ms, from, sentCorrelators(msg))
	if err != nil {
		return err
	}
	ms.emit(xcmtypes.JourneyEventTypeSent, &msg.Journey, sendWaypoint(msg))
	if relay != nil {
		e.emitRelayed(ms, &msg.Journey, relay)
	}
	bridged, err := e.persistHops(ms, msg, 0)
	if err != nil {
		return err
	}
	if err := e.matchOrPersistSent(ms, msg, ttl); err != nil {
		return err
	}
	return e.attachBridges(ms, bridged)
}

// isOnward is true for a send from a stop part way along a journey that started elsewhere
func isOnward(msg *xcmtypes.OutboundMessage) bool {
	return msg.Origin != nil && msg.Waypoint != nil &&
		msg.Origin.ChainID != msg.Waypoint.ChainID &&
		len(journeyIDs(&msg.Journey)) > 0
}

// alreadySent is true if the same send is already waiting at the final stop
func (e *engine) alreadySent(ms *matchState, msg *xcmtypes.OutboundMessage) (bool, error) {
	existing, err := outboundFragments.find(ms, msg.FinalStop(), sentCorrelators(msg))
	if err != nil || existing == nil {
		return false, err
	}
	return sendingChain(existing.Sent) == sendingChain(msg), nil
}

// matchOrPersistSent completes the journey if its receipt is already waiting, else waits for it
func (e *engine) matchOrPersistSent(ms *matchState, sent *xcmtypes.OutboundMessage, ttl time.Duration) error {
	final := sent.FinalStop()
	corr := sentCorrelators(sent)
	received, err := inboundFragments.find(ms, final, corr)
	if err != nil {
		return err
	}
	if received != nil {
		inboundFragments.del(ms, inboundKeys(ms.scope, received)...)
		ms.matched(kvstore.NamespaceInbound)
		e.emitReceived(ms, &sent.Journey, received)
		return nil
	}
	frag := &sentFragment{Scope: ms.scope, Sent: sent}
	for _, c := range corr {
		if err := outboundFragments.put(ms, journeyKey(ms.scope, final, c), frag, ttl); err != nil {
			return err
		}
	}
	return nil
}

func sentKeys(scope string, sent *xcmtypes.OutboundMessage) []string {
	final := sent.FinalStop()
	corr := sentCorrelators(sent)
	keys := make([]string, len(corr))
	for i, c := range corr {
		keys[i] = journeyKey(scope, final, c)
	}
	return keys
}

func inboundKeys(scope string, msg *xcmtypes.InboundMessage) []string {
	corr := inboundCorrelators(msg)
	keys := make([]string, len(corr))
	for i, c := range corr {
		keys[i] = journeyKey(scope, msg.ChainID, c)
	}
	return keys
}

func (e *engine) emitReceived(ms *matchState, journey *xcmtypes.Journey, received *xcmtypes.InboundMessage) {
	legIndex := journey.LegIndexTo(received.ChainID)
	if legIndex < 0 {
		legIndex = len(journey.Legs) - 1
	}
	wp := received.ToWaypoint(legIndex)
	ev := ms.emit(xcmtypes.JourneyEventTypeReceived, journey, wp)
	ev.Destination = &xcmtypes.Terminus{ChainID: received.ChainID, Waypoint: wp}
}
