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

package memory

import (
	"context"
	"sync"

	"github.com/kaleido-io/xcmtracker/internal/config"
	"github.com/kaleido-io/xcmtracker/internal/log"
	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
	gocache "github.com/patrickmn/go-cache"
)

const (
	// MemoryConfCleanupInterval is how often go-cache purges its own expired items. Expiry of
	// fragments is owned by the janitor, so items here never expire and this only bounds housekeeping.
	MemoryConfCleanupInterval = "cleanupInterval"
)

// Memory is a process local keyed store. Nothing survives a restart.
type Memory struct {
	mux        sync.Mutex
	namespaces map[kvstore.Namespace]*gocache.Cache
}

func (m *Memory) Name() string {
	return "memory"
}

func (m *Memory) InitConfigPrefix(prefix config.ConfigPrefix) {
	prefix.AddKnownKey(MemoryConfCleanupInterval, "10m")
}

func (m *Memory) Init(ctx context.Context, prefix config.ConfigPrefix) error {
	cleanup := prefix.GetDuration(MemoryConfCleanupInterval)
	m.namespaces = make(map[kvstore.Namespace]*gocache.Cache)
	for _, ns := range kvstore.AllNamespaces {
		m.namespaces[ns] = gocache.New(gocache.NoExpiration, cleanup)
	}
	log.L(ctx).Debugf("Memory keyed store initialized with %d namespaces", len(m.namespaces))
	return nil
}

func (m *Memory) cache(ns kvstore.Namespace) *gocache.Cache {
	c, ok := m.namespaces[ns]
	if !ok {
		c = gocache.New(gocache.NoExpiration, 0)
		m.namespaces[ns] = c
	}
	return c
}

func copyBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

func (m *Memory) Get(ctx context.Context, ns kvstore.Namespace, key string) ([]byte, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	v, ok := m.cache(ns).Get(key)
	if !ok {
		return nil, nil
	}
	return copyBytes(v.([]byte)), nil
}

func (m *Memory) Put(ctx context.Context, ns kvstore.Namespace, key string, value []byte) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.cache(ns).Set(key, copyBytes(value), gocache.NoExpiration)
	return nil
}

func (m *Memory) Del(ctx context.Context, ns kvstore.Namespace, key string) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.cache(ns).Delete(key)
	return nil
}

func (m *Memory) Batch(ctx context.Context, ops ...*kvstore.Op) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	for _, op := range ops {
		switch op.Type {
		case kvstore.OpTypePut:
			m.cache(op.Namespace).Set(op.Key, copyBytes(op.Value), gocache.NoExpiration)
		case kvstore.OpTypeDel:
			m.cache(op.Namespace).Delete(op.Key)
		}
	}
	return nil
}

func (m *Memory) List(ctx context.Context, ns kvstore.Namespace) ([]*kvstore.Entry, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	items := m.cache(ns).Items()
	entries := make([]*kvstore.Entry, 0, len(items))
	for k, item := range items {
		entries = append(entries, &kvstore.Entry{
			Namespace: ns,
			Key:       k,
			Value:     copyBytes(item.Object.([]byte)),
		})
	}
	return entries, nil
}

func (m *Memory) Close() {}
