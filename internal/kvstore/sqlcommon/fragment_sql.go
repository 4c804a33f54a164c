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
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/kaleido-io/xcmtracker/internal/i18n"
	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
)

const fragmentsTable = "fragments"

var (
	fragmentColumns = []string{
		"namespace",
		"fkey",
		"fvalue",
		"updated",
	}
)

func (s *SQLCommon) Get(ctx context.Context, ns kvstore.Namespace, key string) ([]byte, error) {
	rows, err := s.query(ctx,
		sq.Select("fvalue").
			From(fragmentsTable).
			Where(sq.Eq{"namespace": string(ns), "fkey": key}),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}
	var value []byte
	if err := rows.Scan(&value); err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgDBReadErr, fragmentsTable)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

func (s *SQLCommon) upsertFragmentTx(ctx context.Context, tx *txWrapper, ns kvstore.Namespace, key string, value []byte) error {
	// Do a select within the transaction to detemine if the key already exists
	rows, err := s.queryTx(ctx, tx,
		sq.Select("fkey").
			From(fragmentsTable).
			Where(sq.Eq{"namespace": string(ns), "fkey": key}),
	)
	if err != nil {
		return err
	}
	exists := rows.Next()
	rows.Close()

	now := time.Now().UnixNano()
	if exists {
		return s.updateTx(ctx, tx,
			sq.Update(fragmentsTable).
				Set("fvalue", value).
				Set("updated", now).
				Where(sq.Eq{"namespace": string(ns), "fkey": key}),
		)
	}
	return s.insertTx(ctx, tx,
		sq.Insert(fragmentsTable).
			Columns(fragmentColumns...).
			Values(string(ns), key, value, now),
	)
}

func (s *SQLCommon) deleteFragmentTx(ctx context.Context, tx *txWrapper, ns kvstore.Namespace, key string) error {
	return s.deleteTx(ctx, tx,
		sq.Delete(fragmentsTable).
			Where(sq.Eq{"namespace": string(ns), "fkey": key}),
	)
}

func (s *SQLCommon) Put(ctx context.Context, ns kvstore.Namespace, key string, value []byte) error {
	return s.Batch(ctx, kvstore.PutOp(ns, key, value))
}

func (s *SQLCommon) Del(ctx context.Context, ns kvstore.Namespace, key string) error {
	return s.Batch(ctx, kvstore.DelOp(ns, key))
}

// Batch runs all the ops in one transaction
func (s *SQLCommon) Batch(ctx context.Context, ops ...*kvstore.Op) (err error) {
	ctx, tx, autoCommit, err := s.beginOrUseTx(ctx)
	if err != nil {
		return err
	}
	defer s.rollbackTx(ctx, tx, autoCommit)

	for _, op := range ops {
		switch op.Type {
		case kvstore.OpTypePut:
			err = s.upsertFragmentTx(ctx, tx, op.Namespace, op.Key, op.Value)
		case kvstore.OpTypeDel:
			err = s.deleteFragmentTx(ctx, tx, op.Namespace, op.Key)
		}
		if err != nil {
			return err
		}
	}

	return s.commitTx(ctx, tx, autoCommit)
}

func (s *SQLCommon) fragmentResult(ctx context.Context, ns kvstore.Namespace, row *sql.Rows) (*kvstore.Entry, error) {
	entry := kvstore.Entry{Namespace: ns}
	err := row.Scan(
		&entry.Key,
		&entry.Value,
	)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgDBReadErr, fragmentsTable)
	}
	return &entry, nil
}

func (s *SQLCommon) List(ctx context.Context, ns kvstore.Namespace) ([]*kvstore.Entry, error) {
	rows, err := s.query(ctx,
		sq.Select("fkey", "fvalue").
			From(fragmentsTable).
			Where(sq.Eq{"namespace": string(ns)}).
			OrderBy("fkey"),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*kvstore.Entry{}
	for rows.Next() {
		entry, err := s.fragmentResult(ctx, ns, rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
