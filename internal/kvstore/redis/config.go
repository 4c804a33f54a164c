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

import "github.com/kaleido-io/xcmtracker/internal/config"

const (
	// RedisConfURL is either a redis:// URL, or a plain host:port
	RedisConfURL = "url"
	// RedisConfKeyPrefix is prepended to the hash of each namespace, so several deployments can share a server
	RedisConfKeyPrefix = "keyPrefix"
	// RedisConfConnectTimeout bounds the initial ping
	RedisConfConnectTimeout = "connectTimeout"
)

func (r *Redis) InitConfigPrefix(prefix config.ConfigPrefix) {
	prefix.AddKnownKey(RedisConfURL, "localhost:6379")
	prefix.AddKnownKey(RedisConfKeyPrefix, "xcmtracker")
	prefix.AddKnownKey(RedisConfConnectTimeout, "5s")
}
