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

package sqlcommon

import (
	"context"
	"database/sql"
	"testing"

	sq "github.com/Masterminds/squirrel"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/kaleido-io/xcmtracker/internal/config"
	"github.com/stretchr/testify/assert"

	// Import the pure Go SQLite driver
	_ "modernc.org/sqlite"
)

type sqliteGoTestProvider struct {
	SQLCommon

	prefix config.ConfigPrefix
	t      *testing.T
}

// newSQLiteTestProvider creates a real in-memory database provider, with the migrations applied
func newSQLiteTestProvider(t *testing.T) (*sqliteGoTestProvider, func()) {
	config.Reset()
	tp := &sqliteGoTestProvider{
		t:      t,
		prefix: config.NewPluginConfig("unittest.db"),
	}
	tp.SQLCommon.InitConfigPrefix(tp, tp.prefix)
	tp.prefix.Set(SQLConfDatasourceURL, "file::memory:")
	tp.prefix.Set(SQLConfMigrationsAuto, true)
	tp.prefix.Set(SQLConfMigrationsDirectory, "../../../db/migrations/sqlite")
	tp.prefix.Set(SQLConfMaxConnections, 1)

	err := tp.Init(context.Background(), tp, tp.prefix)
	assert.NoError(tp.t, err)

	return tp, func() {
		tp.Close()
	}
}

func (tp *sqliteGoTestProvider) Name() string {
	return "sqlite"
}

func (tp *sqliteGoTestProvider) MigrationsDir() string {
	return "sqlite"
}

func (tp *sqliteGoTestProvider) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Dollar
}

func (tp *sqliteGoTestProvider) Open(url string) (*sql.DB, error) {
	return sql.Open("sqlite", url)
}

func (tp *sqliteGoTestProvider) GetMigrationDriver(db *sql.DB) (migratedb.Driver, error) {
	return migratesqlite.WithInstance(db, &migratesqlite.Config{})
}
