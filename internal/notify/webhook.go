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

	"github.com/go-resty/resty/v2"
	"github.com/kaleido-io/xcmtracker/internal/config"
	"github.com/kaleido-io/xcmtracker/internal/i18n"
	"github.com/kaleido-io/xcmtracker/internal/restclient"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
)

// WebhookNotifier POSTs each journey event as JSON to a fixed URL
type WebhookNotifier struct {
	client *resty.Client
	url    string
}

func NewWebhookNotifier(ctx context.Context, prefix config.ConfigPrefix) *WebhookNotifier {
	return &WebhookNotifier{
		client: restclient.New(ctx, prefix),
		url:    prefix.GetString(restclient.HTTPConfigURL),
	}
}

func (wh *WebhookNotifier) Notify(ctx context.Context, ev *xcmtypes.JourneyEvent) error {
	res, err := wh.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(ev).
		Post(wh.url)
	if err != nil {
		return restclient.WrapRestErr(ctx, res, err, i18n.MsgWebhookRequestFailed, wh.url)
	}
	if !res.IsSuccess() {
		return restclient.WrapRestErr(ctx, res, nil, i18n.MsgWebhookFailed, wh.url, res.StatusCode())
	}
	return nil
}
