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
	"strings"

	"github.com/kaleido-io/xcmtracker/internal/config"
	"github.com/kaleido-io/xcmtracker/internal/i18n"
	"github.com/kaleido-io/xcmtracker/internal/log"
	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
	"github.com/redis/go-redis/v9"
)

// Redis keeps each namespace in one hash, so a namespace can be listed with a single HGETALL
// and a batch is a single MULTI/EXEC.
type Redis struct {
	client    *redis.Client
	keyPrefix string
}

func (r *Redis) Name() string {
	return "redis"
}

func connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, i18n.WrapError(ctx, err, i18n.MsgRedisFailed, "connect")
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

func (r *Redis) Init(ctx context.Context, prefix config.ConfigPrefix) (err error) {
	r.keyPrefix = prefix.GetString(RedisConfKeyPrefix)
	if r.client, err = connect(ctx, prefix.GetString(RedisConfURL)); err != nil {
		return err
	}
	pingCtx, cancel := context.WithTimeout(ctx, prefix.GetDuration(RedisConfConnectTimeout))
	defer cancel()
	if err := r.client.Ping(pingCtx).Err(); err != nil {
		return i18n.WrapError(ctx, err, i18n.MsgRedisFailed, "PING")
	}
	log.L(ctx).Infof("Connected to redis keyed store prefix=%s", r.keyPrefix)
	return nil
}

func (r *Redis) hashKey(ns kvstore.Namespace) string {
	return r.keyPrefix + ":" + string(ns)
}

func (r *Redis) Get(ctx context.Context, ns kvstore.Namespace, key string) ([]byte, error) {
	v, err := r.client.HGet(ctx, r.hashKey(ns), key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgRedisFailed, "HGET")
	}
	return v, nil
}

func (r *Redis) Put(ctx context.Context, ns kvstore.Namespace, key string, value []byte) error {
	if err := r.client.HSet(ctx, r.hashKey(ns), key, value).Err(); err != nil {
		return i18n.WrapError(ctx, err, i18n.MsgRedisFailed, "HSET")
	}
	return nil
}

func (r *Redis) Del(ctx context.Context, ns kvstore.Namespace, key string) error {
	if err := r.client.HDel(ctx, r.hashKey(ns), key).Err(); err != nil {
		return i18n.WrapError(ctx, err, i18n.MsgRedisFailed, "HDEL")
	}
	return nil
}

func (r *Redis) Batch(ctx context.Context, ops ...*kvstore.Op) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, op := range ops {
			switch op.Type {
			case kvstore.OpTypePut:
				p.HSet(ctx, r.hashKey(op.Namespace), op.Key, op.Value)
			case kvstore.OpTypeDel:
				p.HDel(ctx, r.hashKey(op.Namespace), op.Key)
			}
		}
		return nil
	})
	if err != nil {
		return i18n.WrapError(ctx, err, i18n.MsgRedisFailed, "MULTI")
	}
	return nil
}

func (r *Redis) List(ctx context.Context, ns kvstore.Namespace) ([]*kvstore.Entry, error) {
	all, err := r.client.HGetAll(ctx, r.hashKey(ns)).Result()
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgRedisFailed, "HGETALL")
	}
	entries := make([]*kvstore.Entry, 0, len(all))
	for k, v := range all {
		entries = append(entries, &kvstore.Entry{
			Namespace: ns,
			Key:       k,
			Value:     []byte(v),
		})
	}
	return entries, nil
}

func (r *Redis) Close() {
	if r.client != nil {
		err := r.client.Close()
		log.L(context.Background()).Debugf("Redis closed (err=%v)", err)
	}
}
