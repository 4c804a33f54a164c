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
	"testing"
	"time"

	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

const (
	polkadotAssetHub  = xcmtypes.ChainID("urn:ocn:polkadot:1000")
	polkadotBridgeHub = xcmtypes.ChainID("urn:ocn:polkadot:1002")
	kusamaBridgeHub   = xcmtypes.ChainID("urn:ocn:kusama:1002")
	kusamaAssetHub    = xcmtypes.ChainID("urn:ocn:kusama:1000")
	ethereum          = xcmtypes.ChainID("urn:ocn:ethereum:1")

	testLane  = "0x00000001"
	testNonce = "42"
)

func bridgeMsg(at xcmtypes.ChainID, lane, nonce, id string) xcmtypes.BridgeMessage {
	return xcmtypes.BridgeMessage{
		ChainID:     at,
		BridgeName:  "pk-bridge",
		LaneID:      lane,
		Nonce:       nonce,
		BlockHash:   "0xb30c",
		BlockNumber: "300",
		Outcome:     xcmtypes.OutcomeSuccess,
		MessageID:   id,
	}
}

type bridgeJourney struct {
	steps map[string]func(ctx context.Context, te *testEngine) error
}

// newBridgeJourney goes from the polkadot asset hub to the kusama asset hub, over the bridge
// between the two bridge hubs. receivedID is the id the message carries on the kusama side.
func newBridgeJourney(id, receivedID string) *bridgeJourney {
	legs := []*xcmtypes.Leg{
		leg(polkadotAssetHub, polkadotBridgeHub, xcmtypes.LegTypeHop),
		leg(polkadotBridgeHub, kusamaBridgeHub, xcmtypes.LegTypeBridge),
		leg(kusamaBridgeHub, kusamaAssetHub, xcmtypes.LegTypeHRMP),
	}
	return &bridgeJourney{
		steps: map[string]func(ctx context.Context, te *testEngine) error{
			"sent": func(ctx context.Context, te *testEngine) error {
				return te.OnOutboundMessage(ctx, testScope, outboundMsg(polkadotAssetHub, legs, id, "0xh0"), time.Hour)
			},
			"hop-in": func(ctx context.Context, te *testEngine) error {
				return te.OnInboundMessage(ctx, testScope, inboundMsg(polkadotBridgeHub, id, "0xh1"))
			},
			"accepted": func(ctx context.Context, te *testEngine) error {
				return te.OnBridgeOutboundAccepted(ctx, testScope, &xcmtypes.BridgeAcceptedMessage{
					BridgeMessage: bridgeMsg(polkadotBridgeHub, testLane, testNonce, id),
				})
			},
			"delivered": func(ctx context.Context, te *testEngine) error {
				return te.OnBridgeOutboundDelivered(ctx, testScope, &xcmtypes.BridgeDeliveredMessage{
					BridgeMessage: bridgeMsg(polkadotBridgeHub, testLane, testNonce, ""),
				})
			},
			"bridge-in": func(ctx context.Context, te *testEngine) error {
				return te.OnBridgeInbound(ctx, testScope, &xcmtypes.BridgeInboundMessage{
					BridgeMessage: bridgeMsg(kusamaBridgeHub, testLane, testNonce, receivedID),
				})
			},
			"hop-out": func(ctx context.Context, te *testEngine) error {
				return te.OnOutboundMessage(ctx, testScope, hopOutMsg(polkadotAssetHub, kusamaBridgeHub, legs, receivedID, "0xh2"), time.Hour)
			},
			"received": func(ctx context.Context, te *testEngine) error {
				return te.OnInboundMessage(ctx, testScope, inboundMsg(kusamaAssetHub, receivedID, "0xh3"))
			},
		},
	}
}

func assertBridgeEvents(t assert.TestingT, te *testEngine) {
	assert.Equal(t, map[xcmtypes.JourneyEventType]int{
		xcmtypes.JourneyEventTypeSent:     1,
		xcmtypes.JourneyEventTypeBridge:   2,
		xcmtypes.JourneyEventTypeHop:      2,
		xcmtypes.JourneyEventTypeReceived: 1,
	}, te.notifier.counts())
	var statuses []xcmtypes.BridgeStatus
	for _, ev := range te.notifier.events {
		assert.Equal(t, polkadotAssetHub, ev.Origin.ChainID)
		assert.Equal(t, kusamaAssetHub, ev.Destination.ChainID)
		if ev.Type == xcmtypes.JourneyEventTypeBridge {
			assert.Equal(t, testNonce, ev.Bridge.Nonce)
			assert.Equal(t, "pk-bridge", ev.Bridge.BridgeName)
			statuses = append(statuses, ev.Bridge.Status)
		}
	}
	assert.Equal(t, []xcmtypes.BridgeStatus{xcmtypes.BridgeStatusAccepted, xcmtypes.BridgeStatusReceived}, statuses)
	te.assertEmpty(t, kvstore.NamespaceOutbound, kvstore.NamespaceInbound, kvstore.NamespaceBridge)

	te.sweepAll(t)
	te.assertEmpty(t, kvstore.AllNamespaces...)
	assert.Len(t, te.notifier.events, 6)
}

func TestBridgeInOrder(t *testing.T) {
	te, done := newTestEngine(t)
	defer done()
	ctx := context.Background()

	j := newBridgeJourney("0xb1d", "0xb1d")
	for _, step := range []string{"sent", "hop-in", "accepted", "delivered", "bridge-in", "hop-out", "received"} {
		assert.NoError(t, j.steps[step](ctx, te))
	}
	assert.Equal(t, []xcmtypes.JourneyEventType{
		xcmtypes.JourneyEventTypeSent,
		xcmtypes.JourneyEventTypeHop,
		xcmtypes.JourneyEventTypeBridge,
		xcmtypes.JourneyEventTypeBridge,
		xcmtypes.JourneyEventTypeHop,
		xcmtypes.JourneyEventTypeReceived,
	}, te.notifier.types())
	assert.Equal(t, 1, te.notifier.events[2].Waypoint.LegIndex)
	assert.Equal(t, polkadotBridgeHub, te.notifier.events[2].Waypoint.ChainID)
	assert.Equal(t, kusamaBridgeHub, te.notifier.events[3].Waypoint.ChainID)
	assertBridgeEvents(t, te)
}

func TestBridgeAnyOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		te, done := newTestEngine(rt)
		defer done()
		ctx := context.Background()

		j := newBridgeJourney("0xb1d", "0xb1d")
		order := rapid.Permutation([]string{"sent", "hop-in", "accepted", "delivered", "bridge-in", "hop-out", "received"}).Draw(rt, "order")
		for _, step := range order {
			assert.NoError(rt, j.steps[step](ctx, te))
		}
		assertBridgeEvents(rt, te)
	})
}

func TestBridgeReceiptWithNewID(t *testing.T) {
	te, done := newTestEngine(t)
	defer done()
	ctx := context.Background()

	j := newBridgeJourney("0xb1d", "0xf0d")
	for _, step := range []string{"sent", "hop-in", "accepted", "bridge-in"} {
		assert.NoError(t, j.steps[step](ctx, te))
	}
	// The rest of the journey is waiting under both ids, plus the original hash
	assert.Equal(t, 3, te.count(t, kvstore.NamespaceOutbound))

	for _, step := range []string{"hop-out", "received"} {
		assert.NoError(t, j.steps[step](ctx, te))
	}
	assert.Equal(t, []xcmtypes.JourneyEventType{
		xcmtypes.JourneyEventTypeSent,
		xcmtypes.JourneyEventTypeHop,
		xcmtypes.JourneyEventTypeBridge,
		xcmtypes.JourneyEventTypeBridge,
		xcmtypes.JourneyEventTypeHop,
		xcmtypes.JourneyEventTypeReceived,
	}, te.notifier.types())
	assert.Equal(t, "0xf0d", te.notifier.events[5].ForwardID)
	assertBridgeEvents(t, te)
}

func TestBridgeReceiptWithNewIDAfterReceived(t *testing.T) {
	te, done := newTestEngine(t)
	defer done()
	ctx := context.Background()

	// A receipt under the original id resolves the journey before the bridge does
	j := newBridgeJourney("0xb1d", "0xf0d")
	for _, step := range []string{"sent", "accepted"} {
		assert.NoError(t, j.steps[step](ctx, te))
	}
	err := te.OnInboundMessage(ctx, testScope, inboundMsg(kusamaAssetHub, "0xb1d", "0xh3"))
	assert.NoError(t, err)
	assert.NoError(t, j.steps["bridge-in"](ctx, te))

	te.assertEmpty(t, kvstore.NamespaceOutbound, kvstore.NamespaceBridge)
	assert.Equal(t, map[xcmtypes.JourneyEventType]int{
		xcmtypes.JourneyEventTypeSent:     1,
		xcmtypes.JourneyEventTypeBridge:   2,
		xcmtypes.JourneyEventTypeReceived: 1,
	}, te.notifier.counts())
}

func TestBridgeDuplicatesAndStrayDelivery(t *testing.T) {
	te, done := newTestEngine(t)
	defer done()
	ctx := context.Background()

	j := newBridgeJourney("0xb1d", "0xb1d")
	assert.NoError(t, j.steps["delivered"](ctx, te))
	te.assertEmpty(t, kvstore.NamespaceBridge)

	for _, step := range []string{"sent", "accepted", "accepted", "delivered"} {
		assert.NoError(t, j.steps[step](ctx, te))
	}
	assert.Equal(t, 1, te.count(t, kvstore.NamespaceBridge))
	frag, err := te.store.Get(ctx, kvstore.NamespaceBridge, bridgeKey(testScope, testLane, testNonce))
	assert.NoError(t, err)
	assert.Contains(t, string(frag), `"delivered"`)

	for _, step := range []string{"bridge-in", "bridge-in"} {
		assert.NoError(t, j.steps[step](ctx, te))
	}
	assert.Equal(t, map[xcmtypes.JourneyEventType]int{
		xcmtypes.JourneyEventTypeSent:   1,
		xcmtypes.JourneyEventTypeBridge: 2,
	}, te.notifier.counts())
	// The second receipt has nothing to complete, so it waits for an acceptance that never comes
	assert.Equal(t, 1, te.count(t, kvstore.NamespaceBridge))
	te.sweepAll(t)
	te.assertEmpty(t, kvstore.NamespaceBridge)
}

func TestBridgeAcceptedBeforeSent(t *testing.T) {
	te, done := newTestEngine(t)
	defer done()
	ctx := context.Background()

	j := newBridgeJourney("0xb1d", "0xb1d")
	for _, step := range []string{"accepted", "bridge-in"} {
		assert.NoError(t, j.steps[step](ctx, te))
	}
	// Both ends of the bridge wait for the journey to reach the sending hub
	assert.Empty(t, te.notifier.types())
	assert.Equal(t, 1, te.count(t, kvstore.NamespaceBridge))
	assert.Equal(t, 1, te.count(t, kvstore.NamespaceHop))

	for _, step := range []string{"sent", "hop-in", "hop-out", "received"} {
		assert.NoError(t, j.steps[step](ctx, te))
	}
	assert.Equal(t, xcmtypes.JourneyEventTypeSent, te.notifier.types()[0])
	assertBridgeEvents(t, te)
}

func TestBridgeAcceptedWithoutJourneyExpiresSilently(t *testing.T) {
	te, done := newTestEngine(t)
	defer done()
	ctx := context.Background()

	j := newBridgeJourney("0xb1d", "0xb1d")
	for _, step := range []string{"accepted", "delivered", "bridge-in"} {
		assert.NoError(t, j.steps[step](ctx, te))
	}
	te.sweepAll(t)
	assert.Empty(t, te.notifier.types())
	te.assertEmpty(t, kvstore.AllNamespaces...)
}

func TestBridgeAcceptedWithNothingToCorrelate(t *testing.T) {
	te, done := newTestEngine(t)
	defer done()
	ctx := context.Background()

	j := newBridgeJourney("", "")
	for _, step := range []string{"accepted", "bridge-in"} {
		assert.NoError(t, j.steps[step](ctx, te))
	}
	assert.Equal(t, []xcmtypes.JourneyEventType{
		xcmtypes.JourneyEventTypeBridge,
		xcmtypes.JourneyEventTypeBridge,
	}, te.notifier.types())
	assert.Equal(t, polkadotBridgeHub, te.notifier.events[0].Origin.ChainID)
	te.assertEmpty(t, kvstore.NamespaceBridge, kvstore.NamespaceHop)
}

type snowbridgeJourney struct {
	steps map[string]func(ctx context.Context, te *testEngine) error
}

func newSnowbridgeJourney() *snowbridgeJourney {
	const channel = "0xc173fac324158e77fb5840738a1a541f633cbec8884c6a601c567d2b376a0539"
	const topic = "0x5a0e"
	legs := []*xcmtypes.Leg{
		{From: ethereum, To: polkadotBridgeHub, Type: xcmtypes.LegTypeBridge},
		leg(polkadotBridgeHub, polkadotAssetHub, xcmtypes.LegTypeHRMP),
	}
	origin := &xcmtypes.Waypoint{ChainID: ethereum, BlockNumber: "21000000", BlockHash: "0xe7"}
	return &snowbridgeJourney{
		steps: map[string]func(ctx context.Context, te *testEngine) error{
			"accepted": func(ctx context.Context, te *testEngine) error {
				return te.OnSnowbridgeOriginOutbound(ctx, testScope, &xcmtypes.SnowbridgeOutboundMessage{
					Journey: xcmtypes.Journey{
						Legs:        legs,
						Origin:      origin,
						Destination: &xcmtypes.Terminus{ChainID: polkadotAssetHub},
					},
					Waypoint:    origin,
					BridgeName:  "snowbridge",
					ChannelID:   channel,
					Nonce:       "5",
					Beneficiary: "0x8eaf",
					Asset:       json.RawMessage(`{"id":"DOT","amount":"10"}`),
				})
			},
			"bridge-in": func(ctx context.Context, te *testEngine) error {
				return te.OnBridgeInbound(ctx, testScope, &xcmtypes.BridgeInboundMessage{
					BridgeMessage: bridgeMsg(polkadotBridgeHub, channel, "5", topic),
				})
			},
			"hop-out": func(ctx context.Context, te *testEngine) error {
				return te.OnOutboundMessage(ctx, testScope, hopOutMsg(ethereum, polkadotBridgeHub, legs, topic, "0xh1"), time.Hour)
			},
			"received": func(ctx context.Context, te *testEngine) error {
				return te.OnInboundMessage(ctx, testScope, inboundMsg(polkadotAssetHub, topic, "0xh2"))
			},
		},
	}
}

func assertSnowbridgeEvents(t assert.TestingT, te *testEngine) {
	assert.Equal(t, map[xcmtypes.JourneyEventType]int{
		xcmtypes.JourneyEventTypeBridge:   2,
		xcmtypes.JourneyEventTypeHop:      1,
		xcmtypes.JourneyEventTypeReceived: 1,
	}, te.notifier.counts())
	for _, ev := range te.notifier.events {
		assert.Equal(t, ethereum, ev.Origin.ChainID)
		assert.Equal(t, polkadotAssetHub, ev.Destination.ChainID)
		if ev.Bridge != nil {
			assert.Equal(t, "snowbridge", ev.Bridge.BridgeName)
			assert.NotEmpty(t, ev.Bridge.ChannelID)
			assert.Equal(t, "0x8eaf", ev.Bridge.Beneficiary)
			assert.JSONEq(t, `{"id":"DOT","amount":"10"}`, string(ev.Bridge.Asset))
		}
		if ev.Type == xcmtypes.JourneyEventTypeHop {
			assert.Equal(t, xcmtypes.HopDirectionOut, ev.Direction)
			assert.Equal(t, 1, ev.Waypoint.LegIndex)
		}
	}
	te.assertEmpty(t, kvstore.NamespaceOutbound, kvstore.NamespaceInbound, kvstore.NamespaceBridge)
	te.sweepAll(t)
	te.assertEmpty(t, kvstore.AllNamespaces...)
	assert.Len(t, te.notifier.events, 4)
}

func TestSnowbridge(t *testing.T) {
	for _, order := range [][]string{
		{"accepted", "bridge-in", "hop-out", "received"},
		{"bridge-in", "accepted", "hop-out", "received"},
		{"accepted", "received", "bridge-in", "hop-out"},
		{"hop-out", "accepted", "bridge-in", "received"},
		{"hop-out", "bridge-in", "received", "accepted"},
	} {
		te, done := newTestEngine(t)
		ctx := context.Background()
		j := newSnowbridgeJourney()
		for _, step := range order {
			assert.NoError(t, j.steps[step](ctx, te))
		}
		assertSnowbridgeEvents(t, te)
		done()
	}
}

func TestSnowbridgeAnyOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		te, done := newTestEngine(rt)
		defer done()
		ctx := context.Background()

		j := newSnowbridgeJourney()
		for _, step := range rapid.Permutation([]string{"accepted", "bridge-in", "hop-out", "received"}).Draw(rt, "order") {
			assert.NoError(rt, j.steps[step](ctx, te))
		}
		assertSnowbridgeEvents(rt, te)
	})
}
