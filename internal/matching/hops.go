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
	"time"

	"github.com/kaleido-io/xcmtracker/internal/log"
	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
)

// findHop returns the stop at the chain, once the send that makes it a stop has been seen
func findHop(ms *matchState, chainID xcmtypes.ChainID, corr []string) (*hopFragment, error) {
	hop, err := hopFragments.find(ms, chainID, corr)
	if err != nil || hop == nil || !hop.placed() {
		return nil, err
	}
	return hop, nil
}

func (e *engine) putHop(ms *matchState, hop *hopFragment, ttl time.Duration) error {
	for _, c := range hop.correlators() {
		if err := hopFragments.put(ms, journeyKey(ms.scope, hop.Stop, c), hop, ttl); err != nil {
			return err
		}
	}
	return nil
}

// holdAtStop returns what is already held at a stop the journey is not yet known to pass
// through, so more can be added to it
func holdAtStop(ms *matchState, stop xcmtypes.ChainID, ids []string) (*hopFragment, error) {
	hop, err := hopFragments.find(ms, stop, ids)
	if err != nil {
		return nil, err
	}
	if hop == nil {
		hop = &hopFragment{Stop: stop}
	}
	hop.IDs = correlators(append(hop.IDs, ids...)...)
	return hop, nil
}

// holdOut keeps an onward send until the send that created the stop arrives
func (e *engine) holdOut(ms *matchState, msg *xcmtypes.OutboundMessage) error {
	hop, err := holdAtStop(ms, sendingChain(msg), journeyIDs(&msg.Journey))
	if err != nil || hop.EarlyOut != nil {
		return err
	}
	hop.EarlyOut = msg
	return e.putHop(ms, hop, e.ttl.hop)
}

// holdBridge marks the sending hub with a bridge transfer accepted before the journey reached it
func (e *engine) holdBridge(ms *matchState, hub xcmtypes.ChainID, ids []string, key string) error {
	hop, err := holdAtStop(ms, hub, ids)
	if err != nil {
		return err
	}
	hop.Bridge = key
	return e.putHop(ms, hop, e.ttl.hop)
}

// persistHops writes a hop fragment at the stop of every leg from fromLeg that is not the last,
// and returns the stops with a bridge transfer waiting for the journey
func (e *engine) persistHops(ms *matchState, sent *xcmtypes.OutboundMessage, fromLeg int) ([]*hopFragment, error) {
	ids := journeyIDs(&sent.Journey)
	hash := ""
	if fromLeg == 0 {
		hash = sentHash(sent)
	}
	var bridged []*hopFragment
	for i := fromLeg; i < len(sent.Legs)-1; i++ {
		if len(ids) == 0 && hash == "" {
			// Hashes change at every hop, so there is nothing to correlate the stop with
			break
		}
		hop, err := e.placeHop(ms, sent, i, hash, false)
		if err != nil {
			return nil, err
		}
		if hop.Bridge != "" {
			bridged = append(bridged, hop)
		}
		hash = ""
		if hop.EarlyOut != nil {
			hash = sentHash(hop.EarlyOut)
		}
	}
	return bridged, nil
}

// placeHop writes the stop at the end of leg i. Whatever was seen at the stop before the
// journey was known to pass through it is reported now: an inbound is the in side, and a held
// onward send is the out side.
func (e *engine) placeHop(ms *matchState, sent *xcmtypes.OutboundMessage, i int, hash string, inSeen bool) (*hopFragment, error) {
	stop := sent.Legs[i].To
	hop := &hopFragment{Sent: sent, Stop: stop, LegIndex: i, Hash: hash, InSeen: inSeen}
	for _, c := range hop.correlators() {
		existing, err := hopFragments.get(ms, journeyKey(ms.scope, stop, c))
		if err != nil {
			return nil, err
		}
		if existing == nil {
			continue
		}
		hop.InSeen = hop.InSeen || existing.InSeen
		hop.OutSeen = hop.OutSeen || existing.OutSeen
		if hop.Hash == "" {
			hop.Hash = existing.Hash
		}
		if hop.EarlyOut == nil {
			hop.EarlyOut = existing.EarlyOut
		}
		if hop.Bridge == "" {
			hop.Bridge = existing.Bridge
		}
	}

	early, err := inboundFragments.find(ms, stop, journeyIDs(&sent.Journey))
	if err != nil {
		return nil, err
	}
	if early != nil {
		inboundFragments.del(ms, inboundKeys(ms.scope, early)...)
		ms.matched(kvstore.NamespaceInbound)
		if !hop.InSeen {
			hop.InSeen = true
			ev := ms.emit(xcmtypes.JourneyEventTypeHop, &sent.Journey, early.ToWaypoint(i))
			ev.Direction = xcmtypes.HopDirectionIn
		}
	}
	if hop.EarlyOut != nil && !hop.OutSeen {
		ms.matched(kvstore.NamespaceHop)
		if err := e.reportOut(ms, hop, hop.EarlyOut); err != nil {
			return nil, err
		}
	}
	if err := e.putHop(ms, hop, e.ttl.hop); err != nil {
		return nil, err
	}
	return hop, nil
}

// hopOut reports the out side of a stop that is already known
func (e *engine) hopOut(ms *matchState, hop *hopFragment, msg *xcmtypes.OutboundMessage) error {
	if err := e.reportOut(ms, hop, msg); err != nil {
		return err
	}
	return e.putHop(ms, hop, 0)
}

// reportOut reports the onward send from a stop, in the context of the journey that was sent to it
func (e *engine) reportOut(ms *matchState, hop *hopFragment, out *xcmtypes.OutboundMessage) error {
	relay, err := e.claimRelay(ms, hop.Stop, sentCorrelators(out))
	if err != nil {
		return err
	}
	if !hop.OutSeen {
		hop.OutSeen = true
		wp := sendWaypoint(out)
		wp.LegIndex = hop.Sent.LegIndexFrom(hop.Stop)
		if wp.LegIndex < 0 {
			wp.LegIndex = hop.LegIndex + 1
		}
		ev := ms.emit(xcmtypes.JourneyEventTypeHop, &hop.Sent.Journey, wp)
		ev.Direction = xcmtypes.HopDirectionOut
		if err := e.keyNextStop(ms, hop, sentHash(out)); err != nil {
			return err
		}
	}
	if relay != nil {
		e.emitRelayed(ms, &hop.Sent.Journey, relay)
	}
	return nil
}

// keyNextStop adds the hash of the onward leg to the stop it arrives at, if that stop is
// already known and is not the end of the journey
func (e *engine) keyNextStop(ms *matchState, hop *hopFragment, hash string) error {
	next := hop.LegIndex + 1
	if hash == "" || next >= len(hop.Sent.Legs)-1 {
		return nil
	}
	nextHop, err := findHop(ms, hop.Sent.Legs[next].To, journeyIDs(&hop.Sent.Journey))
	if err != nil || nextHop == nil || nextHop.Hash != "" {
		return err
	}
	log.L(ms.ctx).Debugf("Stop %s also keyed by onward hash %s", nextHop.Stop, hash)
	nextHop.Hash = hash
	return e.putHop(ms, nextHop, e.ttl.hop)
}
