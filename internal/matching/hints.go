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

package matching

import (
	"context"
	"sync"
	"time"

	"github.com/karlseguin/ccache"
	"github.com/kaleido-io/xcmtracker/internal/config"
	"github.com/kaleido-io/xcmtracker/internal/i18n"
	"github.com/kaleido-io/xcmtracker/internal/log"
	"github.com/kaleido-io/xcmtracker/internal/telemetry"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
)

// topicHint is sized so the cache limit is in bytes, rather than entries
type topicHint struct {
	topicID string
}

func (th *topicHint) Size() int64 {
	return int64(len(th.topicID)) + 64
}

// hintIndex maps the content hash of raw queue data to its topic id, for a bounded time
type hintIndex struct {
	mux    sync.Mutex
	closed bool
	cache  *ccache.Cache
	ttl    time.Duration
}

func newHintIndex() *hintIndex {
	return &hintIndex{
		cache: ccache.New(ccache.Configure().MaxSize(config.GetByteSize(config.HintsCacheSize))),
		ttl:   config.GetDuration(config.HintsCacheTTL),
	}
}

func (hi *hintIndex) add(hash, topicID string) bool {
	hi.mux.Lock()
	defer hi.mux.Unlock()
	if hi.closed {
		return false
	}
	hi.cache.Set(hash, &topicHint{topicID: topicID}, hi.ttl)
	return true
}

func (hi *hintIndex) topicID(hash string) string {
	if hash == "" {
		return ""
	}
	cached := hi.cache.Get(hash)
	if cached == nil || cached.Expired() {
		return ""
	}
	return cached.Value().(*topicHint).topicID
}

func (hi *hintIndex) close() {
	hi.mux.Lock()
	defer hi.mux.Unlock()
	if !hi.closed {
		hi.closed = true
		hi.cache.Stop()
	}
}

func (e *engine) OnMessageData(ctx context.Context, hint *xcmtypes.MessageDataHint) error {
	if hint.TopicID == "" || hint.Hash == "" {
		// Nothing to promote a hash-only message with
		return nil
	}
	if !e.hints.add(hint.Hash, hint.TopicID) {
		return i18n.NewError(ctx, i18n.MsgEngineClosed)
	}
	log.L(ctx).Debugf("Indexed topic %s for hash %s", hint.TopicID, hint.Hash)
	e.observer.Observe(telemetry.HintIndexed{})
	return nil
}

// promote returns the message with the topic id indexed for its hash, if it has none of its
// own. The message passed in is left as it was.
func (e *engine) promote(ctx context.Context, msg *xcmtypes.InboundMessage) *xcmtypes.InboundMessage {
	if msg.MessageID != "" {
		return msg
	}
	topicID := e.hints.topicID(msg.MessageHash)
	if topicID == "" {
		return msg
	}
	log.L(ctx).Debugf("Promoted hash %s to topic %s", msg.MessageHash, topicID)
	promoted := *msg
	promoted.MessageID = topicID
	return &promoted
}
