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

	"github.com/kaleido-io/xcmtracker/internal/log"
	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
)

func (e *engine) OnRelayedMessage(ctx context.Context, scope string, msg *xcmtypes.RelayedMessage) error {
	return e.run(ctx, scope, func(ms *matchState) error {
		return e.relayed(ms, msg)
	})
}

// relayed handles a relay confirmation. It never resolves the journey, so a match leaves the
// counterpart in place.
func (e *engine) relayed(ms *matchState, msg *xcmtypes.RelayedMessage) error {
	l := log.L(ms.ctx)
	if in := e.promote(ms.ctx, &msg.InboundMessage); in != &msg.InboundMessage {
		promoted := *msg
		promoted.InboundMessage = *in
		msg = &promoted
	}
	corr := inboundCorrelators(&msg.InboundMessage)

	sent, err := outboundFragments.find(ms, msg.Recipient, corr)
	if err != nil {
		return err
	}
	if sent != nil {
		l.Debugf("Relay %s->%s matched a waiting journey", msg.Origin, msg.Recipient)
		e.emitRelayed(ms, &sent.Sent.Journey, msg)
		return nil
	}

	hop, err := findHop(ms, msg.Recipient, corr)
	if err != nil {
		return err
	}
	if hop != nil {
		l.Debugf("Relay %s->%s matched a hop stop", msg.Origin, msg.Recipient)
		e.emitRelayed(ms, &hop.Sent.Journey, msg)
		return nil
	}

	if msg.MessageID != "" {
		// Stops outlive the receipt, so a late confirmation of the leg leaving one still matches
		hop, err := findHop(ms, msg.Origin, []string{msg.MessageID})
		if err != nil {
			return err
		}
		if hop != nil {
			l.Debugf("Relay %s->%s matched the onward leg of a hop stop", msg.Origin, msg.Recipient)
			e.emitRelayed(ms, &hop.Sent.Journey, msg)
			return nil
		}
	}

	l.Debugf("Relay %s->%s waiting for its send", msg.Origin, msg.Recipient)
	for _, key := range relayKeys(ms.scope, msg) {
		if err := relayFragments.put(ms, key, msg, e.ttl.relay); err != nil {
			return err
		}
	}
	return nil
}

// claimRelay takes a relay confirmation that arrived before the send from the chain
func (e *engine) claimRelay(ms *matchState, from xcmtypes.ChainID, corr []string) (*xcmtypes.RelayedMessage, error) {
	relay, err := relayFragments.find(ms, from, corr)
	if err != nil || relay == nil {
		return nil, err
	}
	relayFragments.del(ms, relayKeys(ms.scope, relay)...)
	ms.matched(kvstore.NamespaceRelay)
	return relay, nil
}

func relayKeys(scope string, msg *xcmtypes.RelayedMessage) []string {
	corr := inboundCorrelators(&msg.InboundMessage)
	keys := make([]string, len(corr))
	for i, c := range corr {
		keys[i] = journeyKey(scope, msg.Origin, c)
	}
	return keys
}

func (e *engine) emitRelayed(ms *matchState, journey *xcmtypes.Journey, relay *xcmtypes.RelayedMessage) {
	legIndex := journey.LegIndexTo(relay.Recipient)
	if legIndex < 0 {
		legIndex = 0
	}
	ms.emit(xcmtypes.JourneyEventTypeRelayed, journey, relay.ToWaypoint(legIndex))
}
