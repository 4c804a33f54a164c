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

package janitor

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/kaleido-io/xcmtracker/internal/config"
	"github.com/kaleido-io/xcmtracker/internal/i18n"
	"github.com/kaleido-io/xcmtracker/internal/log"
	"github.com/kaleido-io/xcmtracker/internal/retry"
	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
)

// Task asks for the entry at (Namespace, Key) to be removed once Expiry has elapsed
type Task struct {
	Namespace kvstore.Namespace `json:"namespace"`
	Key       string            `json:"key"`
	Expiry    time.Duration     `json:"-"`
	Due       int64             `json:"due"`
}

// Sweeper receives the last value of every entry the janitor removes. It is called with the
// guard held, so it must not try to take the guard itself. The sweeper commits the expired
// deletes in the same batch as its own writes. On error nothing is removed, and the entry is
// offered again on the next pass.
type Sweeper interface {
	Sweep(ctx context.Context, task *Task, value []byte, expired []*kvstore.Op) error
}

// Janitor is the expiry scheduler for the keyed store
type Janitor interface {
	// Ops returns the store writes that schedule the tasks, for callers that want them in their own batch
	Ops(tasks ...*Task) []*kvstore.Op
	// Schedule the tasks. Scheduling a key that is already scheduled resets its timer.
	Schedule(ctx context.Context, tasks ...*Task) error
	// Bind the guard taken around each sweep, and the sweeper that disposes of expired values
	Bind(guard sync.Locker, sweeper Sweeper)
	// Start the periodic sweep loop
	Start() error
	// SweepAt runs a single pass, treating now as the current time, and returns the number of entries removed
	SweepAt(ctx context.Context, now time.Time) (int, error)
	// Close stops the loop
	Close()
	// WaitStop waits for the loop to exit
	WaitStop()
}

type janitor struct {
	ctx      context.Context
	cancel   func()
	store    kvstore.Plugin
	retry    *retry.Retry
	interval time.Duration
	guard    sync.Locker
	sweeper  Sweeper
	started  bool
	done     chan struct{}
}

func NewJanitor(ctx context.Context, store kvstore.Plugin) Janitor {
	j := &janitor{
		store:    store,
		retry:    retry.NewFromConfig(),
		interval: config.GetDuration(config.JanitorSweepInterval),
		done:     make(chan struct{}),
	}
	j.ctx, j.cancel = context.WithCancel(log.WithLogField(ctx, "role", "janitor"))
	return j
}

func taskKey(ns kvstore.Namespace, key string) string {
	return string(ns) + "|" + key
}

func (j *janitor) Ops(tasks ...*Task) []*kvstore.Op {
	now := time.Now()
	ops := make([]*kvstore.Op, 0, len(tasks))
	for _, task := range tasks {
		task.Due = now.Add(task.Expiry).UnixNano()
		b, _ := json.Marshal(task)
		ops = append(ops, kvstore.PutOp(kvstore.NamespaceJanitor, taskKey(task.Namespace, task.Key), b))
	}
	return ops
}

func (j *janitor) Schedule(ctx context.Context, tasks ...*Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return j.store.Batch(ctx, j.Ops(tasks...)...)
}

func (j *janitor) Bind(guard sync.Locker, sweeper Sweeper) {
	j.guard = guard
	j.sweeper = sweeper
}

func (j *janitor) Start() error {
	if j.sweeper == nil || j.guard == nil {
		return i18n.NewError(j.ctx, i18n.MsgJanitorNotBound)
	}
	j.started = true
	go j.sweepLoop()
	return nil
}

func (j *janitor) sweepLoop() {
	defer close(j.done)
	l := log.L(j.ctx)
	l.Infof("Janitor started interval=%s", j.interval)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			passCtx, cancel := context.WithTimeout(j.ctx, j.interval)
			if swept, err := j.SweepAt(passCtx, time.Now()); err != nil {
				l.Errorf("Janitor pass failed: %s", err)
			} else if swept > 0 {
				l.Debugf("Janitor swept %d entries", swept)
			}
			cancel()
		case <-j.ctx.Done():
			l.Infof("Janitor stopped")
			return
		}
	}
}

func (j *janitor) listTasks(ctx context.Context) (entries []*kvstore.Entry, err error) {
	err = j.retry.Do(ctx, "list janitor tasks", func(attempt int) (retry bool, err error) {
		entries, err = j.store.List(ctx, kvstore.NamespaceJanitor)
		return err != nil, err
	})
	return entries, err
}

func (j *janitor) decodeTask(ctx context.Context, key string, b []byte) (*Task, error) {
	var task Task
	if err := json.Unmarshal(b, &task); err != nil || task.Key == "" {
		return nil, i18n.NewError(ctx, i18n.MsgJanitorTaskDecodeFailed, key)
	}
	return &task, nil
}

func (j *janitor) SweepAt(ctx context.Context, now time.Time) (int, error) {
	if j.sweeper == nil || j.guard == nil {
		return 0, i18n.NewError(ctx, i18n.MsgJanitorNotBound)
	}
	entries, err := j.listTasks(ctx)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, entry := range entries {
		task, err := j.decodeTask(ctx, entry.Key, entry.Value)
		if err != nil {
			log.L(ctx).Errorf("Dropping janitor task: %s", err)
			_ = j.store.Del(ctx, kvstore.NamespaceJanitor, entry.Key)
			continue
		}
		if task.Due > now.UnixNano() {
			continue
		}
		removed, err := j.sweepTask(ctx, entry.Key, now)
		if err != nil {
			// Left in place for the next pass
			log.L(ctx).Warnf("Janitor task '%s' failed: %s", entry.Key, err)
			continue
		}
		if removed {
			swept++
		}
	}
	return swept, nil
}

// sweepTask re-reads the task under the guard, as it might have been rescheduled since the list
func (j *janitor) sweepTask(ctx context.Context, tk string, now time.Time) (bool, error) {
	j.guard.Lock()
	defer j.guard.Unlock()

	b, err := j.store.Get(ctx, kvstore.NamespaceJanitor, tk)
	if err != nil || b == nil {
		return false, err
	}
	task, err := j.decodeTask(ctx, tk, b)
	if err != nil {
		return false, err
	}
	if task.Due > now.UnixNano() {
		return false, nil
	}

	value, err := j.store.Get(ctx, task.Namespace, task.Key)
	if err != nil {
		return false, err
	}
	expired := []*kvstore.Op{
		kvstore.DelOp(task.Namespace, task.Key),
		kvstore.DelOp(kvstore.NamespaceJanitor, tk),
	}
	if value == nil {
		// Matched before it expired
		return false, j.store.Batch(ctx, expired...)
	}

	log.L(ctx).Debugf("Expired %s", tk)
	if err := j.sweeper.Sweep(ctx, task, value, expired); err != nil {
		return false, i18n.WrapError(ctx, err, i18n.MsgJanitorSweepFailed, task.Namespace, task.Key)
	}
	return true, nil
}

func (j *janitor) Close() {
	j.cancel()
}

func (j *janitor) WaitStop() {
	if j.started {
		<-j.done
	}
}
