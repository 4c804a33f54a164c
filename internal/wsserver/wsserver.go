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

package wsserver

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/kaleido-io/xcmtracker/internal/config"
	"github.com/kaleido-io/xcmtracker/internal/log"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
)

// AllScopes is the topic that receives the events of every scope
const AllScopes = "*"

// WebSocketServer streams journey events to connected clients, each listening on one or more
// scopes. It is a notifier, so it sits alongside the others in the fan-out.
type WebSocketServer interface {
	Notify(ctx context.Context, ev *xcmtypes.JourneyEvent) error
	Handler() http.HandlerFunc
	Close()
}

type webSocketServer struct {
	ctx         context.Context
	mux         sync.Mutex
	upgrader    *websocket.Upgrader
	queueLength int
	connections map[string]*webSocketConnection
}

// NewWebSocketServer create a new server with a simplified interface
func NewWebSocketServer(ctx context.Context) WebSocketServer {
	return &webSocketServer{
		ctx:         log.WithLogField(ctx, "role", "wsserver"),
		connections: make(map[string]*webSocketConnection),
		queueLength: config.GetInt(config.NotifyWSQueueLength),
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (s *webSocketServer) handler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.L(s.ctx).Errorf("WebSocket upgrade failed: %s", err)
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	c := newConnection(s, conn)
	s.connections[c.id] = c
}

func (s *webSocketServer) connectionClosed(c *webSocketConnection) {
	s.mux.Lock()
	defer s.mux.Unlock()
	delete(s.connections, c.id)
}

func (s *webSocketServer) snapshot() []*webSocketConnection {
	s.mux.Lock()
	defer s.mux.Unlock()
	conns := make([]*webSocketConnection, 0, len(s.connections))
	for _, c := range s.connections {
		conns = append(conns, c)
	}
	return conns
}

// Notify queues the event on every connection listening to its scope. A slow client loses
// events rather than holding up the engine.
func (s *webSocketServer) Notify(ctx context.Context, ev *xcmtypes.JourneyEvent) error {
	for _, c := range s.snapshot() {
		c.dispatch(ev)
	}
	return nil
}

func (s *webSocketServer) Handler() http.HandlerFunc {
	return s.handler
}

func (s *webSocketServer) Close() {
	for _, c := range s.snapshot() {
		c.close()
	}
}
