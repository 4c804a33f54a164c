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
	"encoding/json"
	"time"

	"github.com/kaleido-io/xcmtracker/internal/i18n"
	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
)

// sentFragment waits at the final stop of a journey for the receipt
type sentFragment struct {
	Scope string                    `json:"scope"`
	Sent  *xcmtypes.OutboundMessage `json:"sent"`
}

// hopFragment marks an intermediate stop. Each side of the stop is reported once.
// Until the send that creates the stop is seen, Sent is nil and the fragment only holds
// what left the stop early: an onward send, or a bridge transfer.
type hopFragment struct {
	Sent     *xcmtypes.OutboundMessage `json:"sent,omitempty"`
	Stop     xcmtypes.ChainID          `json:"stop"`
	LegIndex int                       `json:"legIndex"`
	Hash     string                    `json:"hash,omitempty"`
	InSeen   bool                      `json:"inSeen,omitempty"`
	OutSeen  bool                      `json:"outSeen,omitempty"`
	IDs      []string                  `json:"ids,omitempty"`
	EarlyOut *xcmtypes.OutboundMessage `json:"earlyOut,omitempty"`
	Bridge   string                    `json:"bridge,omitempty"`
}

func (hop *hopFragment) placed() bool {
	return hop.Sent != nil
}

// correlators are the stable ids of the journey through the stop, and the hash of the leg
// arriving at it when that is known. Relay confirmations carrying only that hash match on it.
func (hop *hopFragment) correlators() []string {
	if !hop.placed() {
		return correlators(hop.IDs...)
	}
	return correlators(append(journeyIDs(&hop.Sent.Journey), hop.Hash)...)
}

// bridgeFragment holds whichever bridge phases have been observed for one (lane, nonce)
type bridgeFragment struct {
	BridgeName  string                  `json:"bridgeName,omitempty"`
	Lane        string                  `json:"lane"`
	Nonce       string                  `json:"nonce"`
	ChannelID   string                  `json:"channelId,omitempty"`
	Beneficiary string                  `json:"beneficiary,omitempty"`
	Asset       json.RawMessage         `json:"asset,omitempty"`
	Journey     *xcmtypes.Journey       `json:"journey,omitempty"`
	Accepted    *xcmtypes.BridgeMessage `json:"accepted,omitempty"`
	Delivered   *xcmtypes.BridgeMessage `json:"delivered,omitempty"`
	Inbound     *xcmtypes.BridgeMessage `json:"inbound,omitempty"`
}

// fragmentCodec binds a namespace to the one type stored in it
type fragmentCodec[T any] struct {
	ns kvstore.Namespace
}

var (
	outboundFragments = fragmentCodec[sentFragment]{ns: kvstore.NamespaceOutbound}
	inboundFragments  = fragmentCodec[xcmtypes.InboundMessage]{ns: kvstore.NamespaceInbound}
	hopFragments      = fragmentCodec[hopFragment]{ns: kvstore.NamespaceHop}
	relayFragments    = fragmentCodec[xcmtypes.RelayedMessage]{ns: kvstore.NamespaceRelay}
	bridgeFragments   = fragmentCodec[bridgeFragment]{ns: kvstore.NamespaceBridge}
)

func (fc fragmentCodec[T]) decode(ctx context.Context, key string, b []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgFragmentDecodeFailed, fc.ns, key)
	}
	return &v, nil
}

func (fc fragmentCodec[T]) get(ms *matchState, key string) (*T, error) {
	b, err := ms.get(fc.ns, key)
	if err != nil || b == nil {
		return nil, err
	}
	return fc.decode(ms.ctx, key, b)
}

// find returns the first fragment found, trying the correlators in order
func (fc fragmentCodec[T]) find(ms *matchState, chainID xcmtypes.ChainID, correlators []string) (*T, error) {
	for _, c := range correlators {
		v, err := fc.get(ms, journeyKey(ms.scope, chainID, c))
		if err != nil || v != nil {
			return v, err
		}
	}
	return nil, nil
}

// put writes the fragment, and schedules its expiry when ttl is non-zero. A zero ttl updates
// the value and leaves the existing schedule in place.
func (fc fragmentCodec[T]) put(ms *matchState, key string, v *T, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return i18n.WrapError(ms.ctx, err, i18n.MsgFragmentEncodeFailed, fc.ns)
	}
	ms.put(fc.ns, key, b, ttl)
	return nil
}

func (fc fragmentCodec[T]) del(ms *matchState, keys ...string) {
	for _, k := range keys {
		ms.del(fc.ns, k)
	}
}
