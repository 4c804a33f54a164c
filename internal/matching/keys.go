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
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
)

// journeyKey is the correlation key of a fragment waiting at a chain. Ids and hashes share the
// key space, so a stable id that equals a content hash still matches.
func journeyKey(scope string, chainID xcmtypes.ChainID, correlator string) string {
	return scope + ":" + string(chainID) + ":" + correlator
}

// bridgeKey correlates bridge phases, which happen on chains that share no block relationship
func bridgeKey(scope, laneOrChannel, nonce string) string {
	return scope + ":" + laneOrChannel + ":" + nonce
}

// correlators returns the non-empty values in order, without duplicates. Callers pass ids before
// hashes, so an id match is always tried first.
func correlators(values ...string) []string {
	c := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		dup := false
		for _, existing := range c {
			if existing == v {
				dup = true
				break
			}
		}
		if !dup {
			c = append(c, v)
		}
	}
	return c
}

func contains(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}

// journeyIDs are the stable ids of a journey, that survive re-encoding at each hop
func journeyIDs(j *xcmtypes.Journey) []string {
	return correlators(j.MessageID, j.ForwardID)
}

func sendingChain(msg *xcmtypes.OutboundMessage) xcmtypes.ChainID {
	if msg.Waypoint != nil {
		return msg.Waypoint.ChainID
	}
	if msg.Origin != nil {
		return msg.Origin.ChainID
	}
	return ""
}

func sentHash(msg *xcmtypes.OutboundMessage) string {
	if msg.Waypoint != nil && msg.Waypoint.MessageHash != "" {
		return msg.Waypoint.MessageHash
	}
	if msg.Origin != nil {
		return msg.Origin.MessageHash
	}
	return ""
}

// sentCorrelators are all the keys an outbound fragment is stored under at its final stop
func sentCorrelators(msg *xcmtypes.OutboundMessage) []string {
	return correlators(msg.MessageID, msg.ForwardID, sentHash(msg))
}

func inboundCorrelators(msg *xcmtypes.InboundMessage) []string {
	return correlators(msg.MessageID, msg.MessageHash)
}

// sendWaypoint is a copy of where the send was observed
func sendWaypoint(msg *xcmtypes.OutboundMessage) *xcmtypes.Waypoint {
	src := msg.Waypoint
	if src == nil {
		src = msg.Origin
	}
	if src == nil {
		return &xcmtypes.Waypoint{ChainID: sendingChain(msg)}
	}
	wp := *src
	return &wp
}
