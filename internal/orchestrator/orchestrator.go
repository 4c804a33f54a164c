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

package orchestrator

import (
	"context"
	"net/http"
	"sync"

	"github.com/kaleido-io/xcmtracker/internal/config"
	"github.com/kaleido-io/xcmtracker/internal/janitor"
	"github.com/kaleido-io/xcmtracker/internal/kvstore/ksfactory"
	"github.com/kaleido-io/xcmtracker/internal/log"
	"github.com/kaleido-io/xcmtracker/internal/matching"
	"github.com/kaleido-io/xcmtracker/internal/metrics"
	"github.com/kaleido-io/xcmtracker/internal/notify"
	"github.com/kaleido-io/xcmtracker/internal/telemetry"
	"github.com/kaleido-io/xcmtracker/internal/wsserver"
	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
)

var storeConfig = config.NewPluginConfig("store")

// Orchestrator owns the lifecycle of the keyed store, the janitor and the matching engine
type Orchestrator interface {
	Init(ctx context.Context, cancelCtx context.CancelFunc) error
	Start() error
	// WaitStop stops the janitor, drains the engine and closes the store
	WaitStop()

	Engine() matching.Engine
	// EventStream is the websocket handler streaming journey events, or nil when disabled
	EventStream() http.Handler
	GetStatus(ctx context.Context) *Status
}

type orchestrator struct {
	ctx       context.Context
	cancelCtx context.CancelFunc
	stopOnce  sync.Once
	started   *xcmtypes.Timestamp
	store     kvstore.Plugin
	janitor   janitor.Janitor
	notifier  notify.Notifier
	observer  telemetry.Observer
	ws        wsserver.WebSocketServer
	engine    matching.Engine
}

// InitConfig registers the keys of the store plugins and notifiers. It must follow any config reset.
func InitConfig() {
	ksfactory.InitConfigPrefix(storeConfig)
	notify.InitConfig()
}

func NewOrchestrator() Orchestrator {
	return &orchestrator{}
}

func (or *orchestrator) Init(ctx context.Context, cancelCtx context.CancelFunc) (err error) {
	or.ctx = ctx
	or.cancelCtx = cancelCtx
	if err = or.initPlugins(ctx); err == nil {
		or.initComponents(ctx)
	}
	return err
}

func (or *orchestrator) initPlugins(ctx context.Context) (err error) {
	if or.store == nil {
		if or.store, err = or.initStorePlugin(ctx); err != nil {
			return err
		}
	}
	if or.notifier == nil {
		or.notifier = notify.NewFromConfig(ctx)
		if config.GetBool(config.NotifyWSEnabled) {
			or.ws = wsserver.NewWebSocketServer(ctx)
			or.notifier = notify.Multi(or.notifier, or.ws)
		}
	}
	if or.observer == nil {
		or.observer = telemetry.Noop
		if config.GetBool(config.MetricsEnabled) {
			or.observer = metrics.NewObserver()
		}
	}
	return nil
}

func (or *orchestrator) initComponents(ctx context.Context) {
	if or.janitor == nil {
		or.janitor = janitor.NewJanitor(ctx, or.store)
	}
	if or.engine == nil {
		or.engine = matching.NewEngine(ctx, or.store, or.janitor, or.notifier, or.observer)
	}
}

func (or *orchestrator) initStorePlugin(ctx context.Context) (kvstore.Plugin, error) {
	pluginType := config.GetString(config.StoreType)
	plugin, err := ksfactory.GetPlugin(ctx, pluginType)
	if err != nil {
		return nil, err
	}
	if err = plugin.Init(ctx, storeConfig.SubPrefix(pluginType)); err != nil {
		return nil, err
	}
	return plugin, nil
}

func (or *orchestrator) Start() error {
	if err := or.janitor.Start(); err != nil {
		return err
	}
	or.started = xcmtypes.Now()
	log.L(or.ctx).Infof("Started store=%s", or.store.Name())
	return nil
}

func (or *orchestrator) WaitStop() {
	or.stopOnce.Do(func() {
		if or.janitor != nil {
			or.janitor.Close()
			or.janitor.WaitStop()
		}
		if or.engine != nil {
			or.engine.Close()
		}
		if or.ws != nil {
			or.ws.Close()
		}
		if or.store != nil {
			or.store.Close()
		}
		log.L(or.ctx).Infof("Stopped")
	})
}

func (or *orchestrator) Engine() matching.Engine {
	return or.engine
}

func (or *orchestrator) EventStream() http.Handler {
	if or.ws == nil {
		return nil
	}
	return or.ws.Handler()
}
