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

func (e *engine) OnInboundMessage(ctx context.Context, scope string, msg *xcmtypes.InboundMessage) error {
	return e.run(ctx, scope, func(ms *matchState) error {
		return e.inbound(ms, msg)
	})
}

func (e *engine) inbound(ms *matchState, msg *xcmtypes.InboundMessage) error {
	l := log.L(ms.ctx)
	msg = e.promote(ms.ctx, msg)
	corr := inboundCorrelators(msg)

	sent, err := outboundFragments.find(ms, msg.ChainID, corr)
	if err != nil {
		return err
	}
	if sent != nil {
		l.Debugf("Inbound at %s completes journey from %s", msg.ChainID, sendingChain(sent.Sent))
		outboundFragments.del(ms, sentKeys(ms.scope, sent.Sent)...)
		ms.matched(kvstore.NamespaceOutbound)
		e.emitReceived(ms, &sent.Sent.Journey, msg)
		return nil
	}

	if msg.MessageID != "" {
		hop, err := findHop(ms, msg.ChainID, []string{msg.MessageID})
		if err != nil {
			return err
		}
		if hop != nil {
			l.Debugf("Inbound at %s is a hop of journey from %s", msg.ChainID, sendingChain(hop.Sent))
			ms.matched(kvstore.NamespaceHop)
			if !hop.InSeen {
				hop.InSeen = true
				if err := e.putHop(ms, hop, 0); err != nil {
					return err
				}
				ev := ms.emit(xcmtypes.JourneyEventTypeHop, &hop.Sent.Journey, msg.ToWaypoint(hop.LegIndex))
				ev.Direction = xcmtypes.HopDirectionIn
			}
			return nil
		}
	}

	l.Debugf("Inbound at %s waiting for its send", msg.ChainID)
	for _, key := range inboundKeys(ms.scope, msg) {
		if err := inboundFragments.put(ms, key, msg, e.ttl.inbound); err != nil {
			return err
		}
	}
	return nil
}
