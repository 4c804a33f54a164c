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

package ksfactory

import (
	"context"

	"github.com/kaleido-io/xcmtracker/internal/config"
	"github.com/kaleido-io/xcmtracker/internal/i18n"
	"github.com/kaleido-io/xcmtracker/internal/kvstore/memory"
	"github.com/kaleido-io/xcmtracker/internal/kvstore/postgres"
	"github.com/kaleido-io/xcmtracker/internal/kvstore/redis"
	"github.com/kaleido-io/xcmtracker/internal/kvstore/sqlitego"
	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
)

var pluginsByName = map[string]func() kvstore.Plugin{
	(*memory.Memory)(nil).Name():     func() kvstore.Plugin { return &memory.Memory{} },
	(*sqlitego.SQLiteGo)(nil).Name(): func() kvstore.Plugin { return &sqlitego.SQLiteGo{} },
	(*postgres.Postgres)(nil).Name(): func() kvstore.Plugin { return &postgres.Postgres{} },
	(*redis.Redis)(nil).Name():       func() kvstore.Plugin { return &redis.Redis{} },
}

// InitConfigPrefix registers the config keys of every plugin, under store.<name>
func InitConfigPrefix(prefix config.ConfigPrefix) {
	for name, plugin := range pluginsByName {
		plugin().InitConfigPrefix(prefix.SubPrefix(name))
	}
}

func GetPlugin(ctx context.Context, pluginType string) (kvstore.Plugin, error) {
	plugin, ok := pluginsByName[pluginType]
	if !ok {
		return nil, i18n.NewError(ctx, i18n.MsgUnknownStorePlugin, pluginType)
	}
	return plugin(), nil
}
