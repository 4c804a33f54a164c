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

package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/kaleido-io/xcmtracker/internal/config"
	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
	"github.com/stretchr/testify/assert"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	config.Reset()
	r := &Redis{}
	prefix := config.NewPluginConfig("unittest.redis")
	r.InitConfigPrefix(prefix)
	prefix.Set(RedisConfURL, "redis://"+mr.Addr())
	err := r.Init(context.Background(), prefix)
	assert.NoError(t, err)
	return r, mr
}

func TestRedisGetPutDel(t *testing.T) {
	r, mr := newTestRedis(t)
	defer r.Close()
	ctx := context.Background()
	assert.Equal(t, "redis", r.Name())

	v, err := r.Get(ctx, kvstore.NamespaceOutbound, "k1")
	assert.NoError(t, err)
	assert.Nil(t, v)

	err = r.Put(ctx, kvstore.NamespaceOutbound, "k1", []byte("v1"))
	assert.NoError(t, err)
	assert.Equal(t, "v1", mr.HGet("xcmtracker:outbound", "k1"))

	v, err = r.Get(ctx, kvstore.NamespaceOutbound, "k1")
	assert.NoError(t, err)
	assert.Equal(t, "v1", string(v))

	err = r.Del(ctx, kvstore.NamespaceOutbound, "k1")
	assert.NoError(t, err)
	err = r.Del(ctx, kvstore.NamespaceOutbound, "k1")
	assert.NoError(t, err)
	v, err = r.Get(ctx, kvstore.NamespaceOutbound, "k1")
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestRedisBatchAndList(t *testing.T) {
	r, _ := newTestRedis(t)
	defer r.Close()
	ctx := context.Background()

	err := r.Batch(ctx,
		kvstore.PutOp(kvstore.NamespaceBridge, "lane:1", []byte("a")),
		kvstore.PutOp(kvstore.NamespaceBridge, "lane:2", []byte("b")),
		kvstore.DelOp(kvstore.NamespaceBridge, "lane:1"),
	)
	assert.NoError(t, err)

	entries, err := r.List(ctx, kvstore.NamespaceBridge)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "lane:2", entries[0].Key)
	assert.Equal(t, "b", string(entries[0].Value))
}

func TestRedisHostPort(t *testing.T) {
	mr := miniredis.RunT(t)
	config.Reset()
	r := &Redis{}
	prefix := config.NewPluginConfig("unittest.redis")
	r.InitConfigPrefix(prefix)
	prefix.Set(RedisConfURL, mr.Addr())
	prefix.Set(RedisConfKeyPrefix, "other")
	err := r.Init(context.Background(), prefix)
	assert.NoError(t, err)
	defer r.Close()
	err = r.Put(context.Background(), kvstore.NamespaceHop, "k", []byte("v"))
	assert.NoError(t, err)
	assert.Equal(t, "v", mr.HGet("other:hop", "k"))
}

func TestRedisBadURL(t *testing.T) {
	config.Reset()
	r := &Redis{}
	prefix := config.NewPluginConfig("unittest.redis")
	r.InitConfigPrefix(prefix)
	prefix.Set(RedisConfURL, "redis://:bad:port:here")
	err := r.Init(context.Background(), prefix)
	assert.Regexp(t, "XT10119", err)
}

func TestRedisFailures(t *testing.T) {
	r, mr := newTestRedis(t)
	defer r.Close()
	ctx := context.Background()
	mr.Close()

	_, err := r.Get(ctx, kvstore.NamespaceOutbound, "k1")
	assert.Regexp(t, "XT10119.*HGET", err)
	err = r.Put(ctx, kvstore.NamespaceOutbound, "k1", []byte("v"))
	assert.Regexp(t, "XT10119.*HSET", err)
	err = r.Del(ctx, kvstore.NamespaceOutbound, "k1")
	assert.Regexp(t, "XT10119.*HDEL", err)
	err = r.Batch(ctx, kvstore.DelOp(kvstore.NamespaceOutbound, "k1"))
	assert.Regexp(t, "XT10119.*MULTI", err)
	_, err = r.List(ctx, kvstore.NamespaceOutbound)
	assert.Regexp(t, "XT10119.*HGETALL", err)

	err = r.Init(ctx, config.NewPluginConfig("unittest.redis"))
	assert.Regexp(t, "XT10119.*PING", err)
}
