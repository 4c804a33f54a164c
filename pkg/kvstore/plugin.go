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

package kvstore

import (
	"context"

	"github.com/kaleido-io/xcmtracker/internal/config"
)

// Namespace partitions the store. Keys in different namespaces never collide.
type Namespace string

const (
	NamespaceOutbound Namespace = "outbound"
	NamespaceInbound  Namespace = "inbound"
	NamespaceHop      Namespace = "hop"
	NamespaceRelay    Namespace = "relay"
	NamespaceBridge   Namespace = "bridge"
	// NamespaceJanitor holds the expiry tasks of the janitor
	NamespaceJanitor Namespace = "janitor"
)

// JourneyNamespaces are the namespaces owned by the matching engine
var JourneyNamespaces = []Namespace{
	NamespaceOutbound,
	NamespaceInbound,
	NamespaceHop,
	NamespaceRelay,
	NamespaceBridge,
}

// AllNamespaces includes the janitor namespace
var AllNamespaces = append(append([]Namespace{}, JourneyNamespaces...), NamespaceJanitor)

type OpType string

const (
	OpTypePut OpType = "put"
	OpTypeDel OpType = "del"
)

// Op is one write within a Batch
type Op struct {
	Type      OpType
	Namespace Namespace
	Key       string
	Value     []byte
}

func PutOp(ns Namespace, key string, value []byte) *Op {
	return &Op{Type: OpTypePut, Namespace: ns, Key: key, Value: value}
}

func DelOp(ns Namespace, key string) *Op {
	return &Op{Type: OpTypeDel, Namespace: ns, Key: key}
}

type Entry struct {
	Namespace Namespace
	Key       string
	Value     []byte
}

// Plugin is the interface implemented by each keyed store
type Plugin interface {
	// Name gets the name of the plugin
	Name() string

	// InitConfigPrefix initializes the set of configuration options that are valid, with defaults. Called on all plugins.
	InitConfigPrefix(prefix config.ConfigPrefix)

	// Init initializes the plugin, with the configuration
	Init(ctx context.Context, prefix config.ConfigPrefix) error

	// Get returns the value stored under the key, or nil (with no error) if there is none
	Get(ctx context.Context, ns Namespace, key string) ([]byte, error)

	// Put inserts or replaces the value under the key
	Put(ctx context.Context, ns Namespace, key string, value []byte) error

	// Del removes the key. Removing a key that does not exist is not an error.
	Del(ctx context.Context, ns Namespace, key string) error

	// Batch applies the ops in order, atomically where the store supports it
	Batch(ctx context.Context, ops ...*Op) error

	// List returns every entry in the namespace, in no particular order
	List(ctx context.Context, ns Namespace) ([]*Entry, error)

	// Close releases any connections
	Close()
}
