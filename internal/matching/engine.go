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
	"sync"
	"time"

	"github.com/kaleido-io/xcmtracker/internal/config"
	"github.com/kaleido-io/xcmtracker/internal/i18n"
	"github.com/kaleido-io/xcmtracker/internal/janitor"
	"github.com/kaleido-io/xcmtracker/internal/log"
	"github.com/kaleido-io/xcmtracker/internal/notify"
	"github.com/kaleido-io/xcmtracker/internal/telemetry"
	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
)

// Engine correlates the fragments of cross-chain journeys, as they arrive in any order from
// independent watchers, and notifies each verified transition of a journey.
type Engine interface {
	janitor.Sweeper

	// OnOutboundMessage handles a send. A zero ttl uses the configured outbound default.
	OnOutboundMessage(ctx context.Context, scope string, msg *xcmtypes.OutboundMessage, ttl time.Duration) error
	OnInboundMessage(ctx context.Context, scope string, msg *xcmtypes.InboundMessage) error
	OnRelayedMessage(ctx context.Context, scope string, msg *xcmtypes.RelayedMessage) error
	// OnMessageData indexes the topic id of raw queue content, without taking the engine lock
	OnMessageData(ctx context.Context, hint *xcmtypes.MessageDataHint) error
	OnBridgeOutboundAccepted(ctx context.Context, scope string, msg *xcmtypes.BridgeAcceptedMessage) error
	OnBridgeOutboundDelivered(ctx context.Context, scope string, msg *xcmtypes.BridgeDeliveredMessage) error
	OnBridgeInbound(ctx context.Context, scope string, msg *xcmtypes.BridgeInboundMessage) error
	OnSnowbridgeOriginOutbound(ctx context.Context, scope string, msg *xcmtypes.SnowbridgeOutboundMessage) error
	// Close waits for in-flight calls, and rejects any after
	Close()
}

type ttls struct {
	outbound time.Duration
	inbound  time.Duration
	hop      time.Duration
	relay    time.Duration
	bridge   time.Duration
}

type engine struct {
	ctx      context.Context
	mux      sync.Mutex
	closed   bool
	store    kvstore.Plugin
	janitor  janitor.Janitor
	notifier notify.Notifier
	observer telemetry.Observer
	hints    *hintIndex
	ttl      ttls
}

// NewEngine creates the engine, and binds it to the janitor as the sweeper of expired fragments
func NewEngine(ctx context.Context, store kvstore.Plugin, jan janitor.Janitor, notifier notify.Notifier, observer telemetry.Observer) Engine {
	if observer == nil {
		observer = telemetry.Noop
	}
	e := &engine{
		ctx:      log.WithLogField(ctx, "role", "matching"),
		store:    store,
		janitor:  jan,
		notifier: notifier,
		observer: observer,
		hints:    newHintIndex(),
		ttl: ttls{
			outbound: config.GetDuration(config.MatchingTTLOutbound),
			inbound:  config.GetDuration(config.MatchingTTLInbound),
			hop:      config.GetDuration(config.MatchingTTLHop),
			relay:    config.GetDuration(config.MatchingTTLRelay),
			bridge:   config.GetDuration(config.MatchingTTLBridge),
		},
	}
	jan.Bind(&e.mux, e)
	return e
}

// run executes one read-decide-write sequence under the engine lock
func (e *engine) run(ctx context.Context, scope string, fn func(ms *matchState) error) error {
	if scope == "" {
		return i18n.NewError(ctx, i18n.MsgMissingScope)
	}
	e.mux.Lock()
	defer e.mux.Unlock()
	if e.closed {
		return i18n.NewError(ctx, i18n.MsgEngineClosed)
	}
	ms := e.newMatchState(log.WithLogField(ctx, "scope", scope), scope)
	if err := fn(ms); err != nil {
		return err
	}
	return e.commit(ms)
}

func (e *engine) commit(ms *matchState) error {
	ops := ms.ops
	if len(ms.tasks) > 0 {
		ops = append(ops, e.janitor.Ops(ms.tasks...)...)
	}
	if len(ops) > 0 {
		if err := e.store.Batch(ms.ctx, ops...); err != nil {
			return err
		}
	}
	for _, t := range ms.telemetry {
		e.observer.Observe(t)
	}
	for _, ev := range ms.events {
		e.notify(ms.ctx, ev)
	}
	return nil
}

// notify never fails the call, as the store transition has already happened
func (e *engine) notify(ctx context.Context, ev *xcmtypes.JourneyEvent) {
	if err := e.safeNotify(ctx, ev); err != nil {
		log.L(ctx).Errorf("Notification of %s event %s failed: %s", ev.Type, ev.ID, err)
		e.observer.Observe(telemetry.NotifyFailed{Type: ev.Type})
		return
	}
	e.observer.Observe(telemetry.Notified{Type: ev.Type})
}

func (e *engine) safeNotify(ctx context.Context, ev *xcmtypes.JourneyEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = i18n.NewError(ctx, i18n.MsgNotifierPanic, r)
		}
	}()
	return e.notifier.Notify(ctx, ev)
}

func (e *engine) Close() {
	e.mux.Lock()
	wasClosed := e.closed
	e.closed = true
	e.mux.Unlock()
	if !wasClosed {
		e.hints.close()
		log.L(e.ctx).Infof("Matching engine closed")
	}
}
