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

	"github.com/kaleido-io/xcmtracker/internal/config"
	"github.com/kaleido-io/xcmtracker/internal/log"
	"github.com/kaleido-io/xcmtracker/internal/restclient"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
)

// Notifier delivers journey events to whatever is listening. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, ev *xcmtypes.JourneyEvent) error
}

// NotifierFunc adapts a function to a Notifier
type NotifierFunc func(ctx context.Context, ev *xcmtypes.JourneyEvent) error

func (f NotifierFunc) Notify(ctx context.Context, ev *xcmtypes.JourneyEvent) error {
	return f(ctx, ev)
}

var webhookConfig = config.NewPluginConfig("notify.webhook")

// InitConfig registers the webhook REST client keys under notify.webhook
func InitConfig() {
	restclient.InitConfigPrefix(webhookConfig)
}

// NewFromConfig builds the set of notifiers enabled in the configuration
func NewFromConfig(ctx context.Context) Notifier {
	var notifiers []Notifier
	if config.GetBool(config.NotifyLogEnabled) {
		notifiers = append(notifiers, NewLogNotifier())
	}
	if webhookConfig.GetString(restclient.HTTPConfigURL) != "" {
		notifiers = append(notifiers, NewWebhookNotifier(ctx, webhookConfig))
	}
	if len(notifiers) == 0 {
		log.L(ctx).Warnf("No notifiers are enabled, journey events will be discarded")
	}
	return Multi(notifiers...)
}

type multi []Notifier

// Multi fans each event out to every notifier. All are called even if one fails, and the
// first error is returned.
func Multi(notifiers ...Notifier) Notifier {
	if len(notifiers) == 1 {
		return notifiers[0]
	}
	return multi(notifiers)
}

func (m multi) Notify(ctx context.Context, ev *xcmtypes.JourneyEvent) error {
	var firstErr error
	for _, n := range m {
		if err := n.Notify(ctx, ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
