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
	"sync"

	ws "github.com/gorilla/websocket"
	"github.com/kaleido-io/xcmtracker/internal/log"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
)

type webSocketConnection struct {
	id      string
	ctx     context.Context
	server  *webSocketServer
	conn    *ws.Conn
	mux     sync.Mutex
	closed  bool
	topics  map[string]bool
	queue   chan interface{}
	closing chan struct{}
}

type webSocketCommandMessage struct {
	Type  string `json:"type,omitempty"`
	Topic string `json:"topic,omitempty"`
}

func newConnection(server *webSocketServer, conn *ws.Conn) *webSocketConnection {
	id := xcmtypes.ShortID()
	wsc := &webSocketConnection{
		id:      id,
		server:  server,
		conn:    conn,
		topics:  make(map[string]bool),
		queue:   make(chan interface{}, server.queueLength),
		closing: make(chan struct{}),
		ctx:     log.WithLogField(server.ctx, "ws", id),
	}
	go wsc.listen()
	go wsc.sender()
	return wsc
}

func (c *webSocketConnection) close() {
	c.mux.Lock()
	wasClosed := c.closed
	if !c.closed {
		c.closed = true
		c.conn.Close()
		close(c.closing)
	}
	c.mux.Unlock()

	if !wasClosed {
		c.server.connectionClosed(c)
		log.L(c.ctx).Infof("WS/%s: Disconnected", c.id)
	}
}

func (c *webSocketConnection) sender() {
	defer c.close()
	for {
		select {
		case msg := <-c.queue:
			if err := c.conn.WriteJSON(msg); err != nil {
				log.L(c.ctx).Errorf("Websocket write failed: %s", err)
				return
			}
		case <-c.closing:
			log.L(c.ctx).Infof("Websocket closing")
			return
		}
	}
}

// enqueue never blocks. It reports false when the queue is full, or the connection closed.
func (c *webSocketConnection) enqueue(msg interface{}) bool {
	c.mux.Lock()
	defer c.mux.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.queue <- msg:
		return true
	default:
		return false
	}
}

func (c *webSocketConnection) dispatch(ev *xcmtypes.JourneyEvent) {
	c.mux.Lock()
	listening := c.topics[ev.Scope] || c.topics[AllScopes]
	c.mux.Unlock()
	if listening && !c.enqueue(ev) {
		log.L(c.ctx).Warnf("Dropped %s event %s for scope '%s'", ev.Type, ev.ID, ev.Scope)
	}
}

func (c *webSocketConnection) setTopic(topic string, listen bool) {
	c.mux.Lock()
	if listen {
		c.topics[topic] = true
	} else {
		delete(c.topics, topic)
	}
	c.mux.Unlock()
}

func (c *webSocketConnection) listen() {
	defer c.close()
	log.L(c.ctx).Infof("Websocket connected")
	for {
		var msg webSocketCommandMessage
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			log.L(c.ctx).Infof("Websocket error: %s", err)
			return
		}
		log.L(c.ctx).Debugf("Websocket received: %+v", msg)

		if msg.Topic == "" {
			msg.Topic = AllScopes
		}
		switch msg.Type {
		case "listen":
			c.setTopic(msg.Topic, true)
			c.enqueue(&webSocketCommandMessage{Type: "listening", Topic: msg.Topic})
		case "unlisten":
			c.setTopic(msg.Topic, false)
			c.enqueue(&webSocketCommandMessage{Type: "unlistened", Topic: msg.Topic})
		default:
			log.L(c.ctx).Errorf("Unexpected message type: %+v", msg)
		}
	}
}
