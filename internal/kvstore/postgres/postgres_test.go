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

package postgres

import (
	"context"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/kaleido-io/xcmtracker/internal/config"
	"github.com/kaleido-io/xcmtracker/internal/kvstore/sqlcommon"
	"github.com/stretchr/testify/assert"
)

func TestPostgresProvider(t *testing.T) {
	config.Reset()
	psql := &Postgres{}
	prefix := config.NewPluginConfig("unittest.postgres")
	psql.InitConfigPrefix(prefix)
	prefix.Set(sqlcommon.SQLConfDatasourceURL, "!bad connection")
	err := psql.Init(context.Background(), prefix)
	assert.NoError(t, err)
	_, err = psql.GetMigrationDriver(psql.DB())
	assert.Error(t, err)

	assert.Equal(t, "postgres", psql.Name())
	assert.Equal(t, "postgres", psql.MigrationsDir())
	assert.Equal(t, sq.Dollar, psql.PlaceholderFormat())
	assert.Equal(t, "./db/migrations/postgres", prefix.GetString(sqlcommon.SQLConfMigrationsDirectory))
}
