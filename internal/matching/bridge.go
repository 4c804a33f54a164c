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

func (e *engine) OnBridgeOutboundAccepted(ctx context.Context, scope string, msg *xcmtypes.BridgeAcceptedMessage) error {
	return e.run(ctx, scope, func(ms *matchState) error {
		return e.bridgeAccepted(ms, msg)
	})
}

func (e *engine) OnBridgeOutboundDelivered(ctx context.Context, scope string, msg *xcmtypes.BridgeDeliveredMessage) error {
	return e.run(ctx, scope, func(ms *matchState) error {
		return e.bridgeDelivered(ms, msg)
	})
}

func (e *engine) OnBridgeInbound(ctx context.Context, scope string, msg *xcmtypes.BridgeInboundMessage) error {
	return e.run(ctx, scope, func(ms *matchState) error {
		return e.bridgeInbound(ms, msg)
	})
}

func (e *engine) OnSnowbridgeOriginOutbound(ctx context.Context, scope string, msg *xcmtypes.SnowbridgeOutboundMessage) error {
	return e.run(ctx, scope, func(ms *matchState) error {
		return e.snowbridgeOutbound(ms, msg)
	})
}

func (e *engine) getBridge(ms *matchState, key string, lane, nonce string) (*bridgeFragment, error) {
	frag, err := bridgeFragments.get(ms, key)
	if err != nil {
		return nil, err
	}
	if frag == nil {
		frag = &bridgeFragment{Lane: lane, Nonce: nonce}
	}
	return frag, nil
}

func (frag *bridgeFragment) info(status xcmtypes.BridgeStatus) *xcmtypes.BridgeInfo {
	return &xcmtypes.BridgeInfo{
		Status:      status,
		BridgeName:  frag.BridgeName,
		Nonce:       frag.Nonce,
		ChannelID:   frag.ChannelID,
		Beneficiary: frag.Beneficiary,
		Asset:       frag.Asset,
	}
}

// bridgeAccepted is the send into the bridge on the sending hub, which is the out side of that hub's stop
func (e *engine) bridgeAccepted(ms *matchState, msg *xcmtypes.BridgeAcceptedMessage) error {
	key := bridgeKey(ms.scope, msg.LaneID, msg.Nonce)
	frag, err := e.getBridge(ms, key, msg.LaneID, msg.Nonce)
	if err != nil || frag.Accepted != nil {
		return err
	}
	frag.Accepted = &msg.BridgeMessage
	if msg.BridgeName != "" {
		frag.BridgeName = msg.BridgeName
	}

	hop, err := findHop(ms, msg.ChainID, correlators(msg.Correlator(), msg.MessageID))
	if err != nil {
		return err
	}
	if hop != nil {
		return e.attachBridge(ms, key, frag, hop, e.ttl.bridge)
	}

	if ids := correlators(msg.MessageID, msg.ForwardID); len(ids) > 0 {
		log.L(ms.ctx).Debugf("Bridge accepted on %s waiting for the journey to reach it", msg.ChainID)
		if err := e.holdBridge(ms, msg.ChainID, ids, key); err != nil {
			return err
		}
		return bridgeFragments.put(ms, key, frag, e.ttl.bridge)
	}

	log.L(ms.ctx).Debugf("Bridge accepted on %s with nothing to correlate a journey with", msg.ChainID)
	frag.Journey = &xcmtypes.Journey{
		Origin:    msg.ToWaypoint(0),
		MessageID: msg.MessageID,
		ForwardID: msg.ForwardID,
	}
	ev := ms.emit(xcmtypes.JourneyEventTypeBridge, frag.Journey, msg.ToWaypoint(0))
	ev.Bridge = frag.info(xcmtypes.BridgeStatusAccepted)
	if frag.Inbound != nil {
		return e.bridgeComplete(ms, key, frag)
	}
	return bridgeFragments.put(ms, key, frag, e.ttl.bridge)
}

// attachBridge joins an accepted transfer to the journey through the sending hub, and reports it
func (e *engine) attachBridge(ms *matchState, key string, frag *bridgeFragment, hop *hopFragment, ttl time.Duration) error {
	frag.Journey = &hop.Sent.Journey
	if !hop.OutSeen {
		hop.OutSeen = true
		if err := e.putHop(ms, hop, 0); err != nil {
			return err
		}
	}
	ev := ms.emit(xcmtypes.JourneyEventTypeBridge, frag.Journey, frag.Accepted.ToWaypoint(hop.LegIndex+1))
	ev.Bridge = frag.info(xcmtypes.BridgeStatusAccepted)

	if frag.Inbound != nil {
		return e.bridgeComplete(ms, key, frag)
	}
	return bridgeFragments.put(ms, key, frag, ttl)
}

// attachBridges reports the transfers that were accepted at a hub before the journey reached it
func (e *engine) attachBridges(ms *matchState, hubs []*hopFragment) error {
	for _, hop := range hubs {
		frag, err := bridgeFragments.get(ms, hop.Bridge)
		if err != nil {
			return err
		}
		if frag == nil || frag.Accepted == nil || frag.Journey != nil {
			continue
		}
		if err := e.attachBridge(ms, hop.Bridge, frag, hop, 0); err != nil {
			return err
		}
	}
	return nil
}

// bridgeDelivered only updates what is known about a bridge transfer that is in progress
func (e *engine) bridgeDelivered(ms *matchState, msg *xcmtypes.BridgeDeliveredMessage) error {
	key := bridgeKey(ms.scope, msg.LaneID, msg.Nonce)
	frag, err := bridgeFragments.get(ms, key)
	if err != nil {
		return err
	}
	if frag == nil {
		log.L(ms.ctx).Debugf("Bridge delivery %s/%s has nothing waiting", msg.LaneID, msg.Nonce)
		return nil
	}
	frag.Delivered = &msg.BridgeMessage
	return bridgeFragments.put(ms, key, frag, 0)
}

func (e *engine) bridgeInbound(ms *matchState, msg *xcmtypes.BridgeInboundMessage) error {
	key := bridgeKey(ms.scope, msg.LaneID, msg.Nonce)
	frag, err := e.getBridge(ms, key, msg.LaneID, msg.Nonce)
	if err != nil || frag.Inbound != nil {
		return err
	}
	frag.Inbound = &msg.BridgeMessage
	if frag.Accepted == nil || frag.Journey == nil {
		log.L(ms.ctx).Debugf("Bridge inbound %s/%s waiting for acceptance", msg.LaneID, msg.Nonce)
		return bridgeFragments.put(ms, key, frag, e.ttl.bridge)
	}
	return e.bridgeComplete(ms, key, frag)
}

func (e *engine) snowbridgeOutbound(ms *matchState, msg *xcmtypes.SnowbridgeOutboundMessage) error {
	key := bridgeKey(ms.scope, msg.ChannelID, msg.Nonce)
	frag, err := e.getBridge(ms, key, msg.ChannelID, msg.Nonce)
	if err != nil || frag.Accepted != nil {
		return err
	}
	wp := msg.Waypoint
	if wp == nil {
		wp = msg.Origin
	}
	if wp == nil {
		wp = &xcmtypes.Waypoint{}
	}
	frag.BridgeName = msg.BridgeName
	frag.ChannelID = msg.ChannelID
	frag.Beneficiary = msg.Beneficiary
	frag.Asset = msg.Asset
	frag.Journey = &msg.Journey
	frag.Accepted = &xcmtypes.BridgeMessage{
		ChainID:     wp.ChainID,
		BridgeName:  msg.BridgeName,
		LaneID:      msg.ChannelID,
		Nonce:       msg.Nonce,
		BlockHash:   wp.BlockHash,
		BlockNumber: wp.BlockNumber,
		Timestamp:   wp.Timestamp,
		MessageID:   msg.MessageID,
	}
	ev := ms.emit(xcmtypes.JourneyEventTypeBridge, frag.Journey, wp)
	ev.Bridge = frag.info(xcmtypes.BridgeStatusAccepted)

	if frag.Inbound != nil {
		return e.bridgeComplete(ms, key, frag)
	}
	return bridgeFragments.put(ms, key, frag, e.ttl.bridge)
}

// bridgeComplete reports the receipt on the far side of the bridge, once both ends are known
func (e *engine) bridgeComplete(ms *matchState, key string, frag *bridgeFragment) error {
	bridgeFragments.del(ms, key)
	ms.matched(kvstore.NamespaceBridge)

	in := frag.Inbound
	legIndex := frag.Journey.LegIndexTo(in.ChainID)
	if legIndex < 0 {
		legIndex = 0
	}
	ev := ms.emit(xcmtypes.JourneyEventTypeBridge, frag.Journey, in.ToWaypoint(legIndex))
	ev.Bridge = frag.info(xcmtypes.BridgeStatusReceived)
	return e.splice(ms, frag)
}

// splice joins the far side of the bridge to the journey. The receiving hub becomes a stop whose
// in side is the bridge receipt. When the receipt brings an id the journey did not have, the
// rest of the journey is re-keyed under it, so the onward send and final receipt still match.
func (e *engine) splice(ms *matchState, frag *bridgeFragment) error {
	in := frag.Inbound
	journey := frag.Journey
	legIndex := journey.LegIndexTo(in.ChainID)
	if legIndex < 0 || legIndex >= len(journey.Legs)-1 {
		// The hub is not on the planned path, or the journey ends there
		return nil
	}

	ids := journeyIDs(journey)
	hop, err := findHop(ms, in.ChainID, ids)
	if err != nil {
		return err
	}
	newID := in.MessageID
	if contains(ids, newID) {
		newID = ""
	}
	if hop != nil && newID == "" {
		_, err := e.placeHop(ms, hop.Sent, legIndex, "", true)
		return err
	}

	var sent *xcmtypes.OutboundMessage
	var stale []string
	waitingSent := true
	if hop != nil {
		sent = hop.Sent
		existing, err := outboundFragments.find(ms, sent.FinalStop(), sentCorrelators(sent))
		if err != nil {
			return err
		}
		waitingSent = existing != nil
		stale = sentKeys(ms.scope, sent)
	} else {
		sent = &xcmtypes.OutboundMessage{Journey: *journey, Waypoint: journey.Origin}
	}
	switch {
	case newID == "":
	case sent.MessageID == "":
		sent.MessageID = newID
	default:
		sent.ForwardID = newID
	}
	if len(journeyIDs(&sent.Journey)) == 0 {
		return nil
	}
	log.L(ms.ctx).Debugf("Splicing journey at bridge hub %s", in.ChainID)

	if _, err := e.placeHop(ms, sent, legIndex, "", true); err != nil {
		return err
	}
	bridged, err := e.persistHops(ms, sent, legIndex+1)
	if err != nil {
		return err
	}
	if waitingSent {
		outboundFragments.del(ms, stale...)
		if err := e.matchOrPersistSent(ms, sent, e.ttl.outbound); err != nil {
			return err
		}
	}
	return e.attachBridges(ms, bridged)
}
