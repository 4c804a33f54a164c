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
	"database/sql/driver"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
	"github.com/stretchr/testify/assert"
)

func driverResult(rowsAffected int64) driver.Result {
	return sqlmock.NewResult(0, rowsAffected)
}

func TestFragmentsE2EWithDB(t *testing.T) {
	s, cleanup := newSQLiteTestProvider(t)
	defer cleanup()
	ctx := context.Background()

	// Miss is not an error
	v, err := s.Get(ctx, kvstore.NamespaceOutbound, "polkadot:urn:ocn:local:2006:0xaa")
	assert.NoError(t, err)
	assert.Nil(t, v)

	// Insert, then replace
	err = s.Put(ctx, kvstore.NamespaceOutbound, "polkadot:urn:ocn:local:2006:0xaa", []byte(`{"v":1}`))
	assert.NoError(t, err)
	err = s.Put(ctx, kvstore.NamespaceOutbound, "polkadot:urn:ocn:local:2006:0xaa", []byte(`{"v":2}`))
	assert.NoError(t, err)
	v, err = s.Get(ctx, kvstore.NamespaceOutbound, "polkadot:urn:ocn:local:2006:0xaa")
	assert.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(v))

	// Same key in another namespace is independent
	v, err = s.Get(ctx, kvstore.NamespaceInbound, "polkadot:urn:ocn:local:2006:0xaa")
	assert.NoError(t, err)
	assert.Nil(t, v)

	// Batch put and delete atomically
	err = s.Batch(ctx,
		kvstore.PutOp(kvstore.NamespaceHop, "h1", []byte("a")),
		kvstore.PutOp(kvstore.NamespaceHop, "h2", []byte("b")),
		kvstore.DelOp(kvstore.NamespaceOutbound, "polkadot:urn:ocn:local:2006:0xaa"),
	)
	assert.NoError(t, err)
	v, err = s.Get(ctx, kvstore.NamespaceOutbound, "polkadot:urn:ocn:local:2006:0xaa")
	assert.NoError(t, err)
	assert.Nil(t, v)

	entries, err := s.List(ctx, kvstore.NamespaceHop)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "h1", entries[0].Key)
	assert.Equal(t, "a", string(entries[0].Value))
	assert.Equal(t, kvstore.NamespaceHop, entries[1].Namespace)

	// Deleting a missing key is fine
	err = s.Del(ctx, kvstore.NamespaceHop, "missing")
	assert.NoError(t, err)
}

func TestGetFragmentQueryFail(t *testing.T) {
	s, mock := newMockProvider().init()
	mock.ExpectQuery("SELECT .*").WillReturnError(fmt.Errorf("pop"))
	_, err := s.Get(context.Background(), kvstore.NamespaceOutbound, "k1")
	assert.Regexp(t, "XT10114", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFragmentReadFail(t *testing.T) {
	s, mock := newMockProvider().init()
	mock.ExpectQuery("SELECT .*").WillReturnRows(sqlmock.NewRows([]string{"fkey", "fvalue"}).AddRow("k1", "v1"))
	_, err := s.Get(context.Background(), kvstore.NamespaceOutbound, "k1")
	assert.Regexp(t, "XT10118", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutFragmentFailBegin(t *testing.T) {
	s, mock := newMockProvider().init()
	mock.ExpectBegin().WillReturnError(fmt.Errorf("pop"))
	err := s.Put(context.Background(), kvstore.NamespaceOutbound, "k1", []byte("v"))
	assert.Regexp(t, "XT10111", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutFragmentFailSelect(t *testing.T) {
	s, mock := newMockProvider().init()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .*").WillReturnError(fmt.Errorf("pop"))
	mock.ExpectRollback()
	err := s.Put(context.Background(), kvstore.NamespaceOutbound, "k1", []byte("v"))
	assert.Regexp(t, "XT10114", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutFragmentFailInsert(t *testing.T) {
	s, mock := newMockProvider().init()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .*").WillReturnRows(sqlmock.NewRows([]string{"fkey"}))
	mock.ExpectExec("INSERT .*").WillReturnError(fmt.Errorf("pop"))
	mock.ExpectRollback()
	err := s.Put(context.Background(), kvstore.NamespaceOutbound, "k1", []byte("v"))
	assert.Regexp(t, "XT10115", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutFragmentFailUpdate(t *testing.T) {
	s, mock := newMockProvider().init()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .*").WillReturnRows(sqlmock.NewRows([]string{"fkey"}).AddRow("k1"))
	mock.ExpectExec("UPDATE .*").WillReturnError(fmt.Errorf("pop"))
	mock.ExpectRollback()
	err := s.Put(context.Background(), kvstore.NamespaceOutbound, "k1", []byte("v"))
	assert.Regexp(t, "XT10116", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelFragmentFail(t *testing.T) {
	s, mock := newMockProvider().init()
	mock.ExpectBegin()
	mock.ExpectExec("DELETE .*").WillReturnError(fmt.Errorf("pop"))
	mock.ExpectRollback()
	err := s.Del(context.Background(), kvstore.NamespaceOutbound, "k1")
	assert.Regexp(t, "XT10117", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchFailCommit(t *testing.T) {
	s, mock := newMockProvider().init()
	mock.ExpectBegin()
	mock.ExpectExec("DELETE .*").WillReturnResult(driverResult(1))
	mock.ExpectCommit().WillReturnError(fmt.Errorf("pop"))
	err := s.Batch(context.Background(), kvstore.DelOp(kvstore.NamespaceOutbound, "k1"))
	assert.Regexp(t, "XT10112", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFragmentsQueryFail(t *testing.T) {
	s, mock := newMockProvider().init()
	mock.ExpectQuery("SELECT .*").WillReturnError(fmt.Errorf("pop"))
	_, err := s.List(context.Background(), kvstore.NamespaceJanitor)
	assert.Regexp(t, "XT10114", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFragmentsReadFail(t *testing.T) {
	s, mock := newMockProvider().init()
	mock.ExpectQuery("SELECT .*").WillReturnRows(sqlmock.NewRows([]string{"fkey"}).AddRow("k1"))
	_, err := s.List(context.Background(), kvstore.NamespaceJanitor)
	assert.Regexp(t, "XT10118", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
