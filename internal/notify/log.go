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

package notify

import (
	"context"

	"github.com/kaleido-io/xcmtracker/internal/log"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
	"github.com/sirupsen/logrus"
)

// LogNotifier writes one structured line per journey event, at info level for the end of a journey
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (ln *LogNotifier) Notify(ctx context.Context, ev *xcmtypes.JourneyEvent) error {
	fields := logrus.Fields{
		"journey": ev.Type,
		"scope":   ev.Scope,
	}
	if ev.Origin != nil {
		fields["origin"] = ev.Origin.ChainID
	}
	if ev.Destination != nil {
		fields["destination"] = ev.Destination.ChainID
	}
	if ev.Waypoint != nil {
		fields["at"] = ev.Waypoint.ChainID
		fields["block"] = ev.Waypoint.BlockNumber
	}
	if ev.MessageID != "" {
		fields["messageId"] = ev.MessageID
	}
	if ev.Direction != "" {
		fields["direction"] = ev.Direction
	}
	if ev.Bridge != nil {
		fields["bridge"] = ev.Bridge.Status
		fields["nonce"] = ev.Bridge.Nonce
	}
	l := log.L(ctx).WithFields(fields)
	if ev.Type.IsTerminal() {
		l.Infof("Journey %s %s", ev.Type, ev.ID)
	} else {
		l.Debugf("Journey %s %s", ev.Type, ev.ID)
	}
	return nil
}
