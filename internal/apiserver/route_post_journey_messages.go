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

package apiserver

import (
	"net/http"
	"time"

	"github.com/kaleido-io/xcmtracker/internal/i18n"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
)

var postOutbound = &Route{
	Name:            "postOutbound",
	Path:            "outbound",
	Method:          http.MethodPost,
	Scoped:          true,
	QueryParams:     []string{"ttl"},
	JSONInputSchema: outboundSchema,
	JSONInputValue:  func() interface{} { return &xcmtypes.OutboundMessage{} },
	JSONOutputCode:  http.StatusAccepted,
	JSONHandler: func(r *APIRequest) (output interface{}, err error) {
		var ttl time.Duration
		if s := r.QP["ttl"]; s != "" {
			if ttl, err = time.ParseDuration(s); err != nil {
				return nil, i18n.WrapError(r.Ctx, err, i18n.MsgInvalidTTL, s)
			}
		}
		return nil, r.Or.Engine().OnOutboundMessage(r.Ctx, r.Scope, r.Input.(*xcmtypes.OutboundMessage), ttl)
	},
}

var postInbound = &Route{
	Name:            "postInbound",
	Path:            "inbound",
	Method:          http.MethodPost,
	Scoped:          true,
	JSONInputSchema: inboundSchema,
	JSONInputValue:  func() interface{} { return &xcmtypes.InboundMessage{} },
	JSONOutputCode:  http.StatusAccepted,
	JSONHandler: func(r *APIRequest) (output interface{}, err error) {
		return nil, r.Or.Engine().OnInboundMessage(r.Ctx, r.Scope, r.Input.(*xcmtypes.InboundMessage))
	},
}

var postRelayed = &Route{
	Name:            "postRelayed",
	Path:            "relayed",
	Method:          http.MethodPost,
	Scoped:          true,
	JSONInputSchema: relayedSchema,
	JSONInputValue:  func() interface{} { return &xcmtypes.RelayedMessage{} },
	JSONOutputCode:  http.StatusAccepted,
	JSONHandler: func(r *APIRequest) (output interface{}, err error) {
		return nil, r.Or.Engine().OnRelayedMessage(r.Ctx, r.Scope, r.Input.(*xcmtypes.RelayedMessage))
	},
}

var postBridgeAccepted = &Route{
	Name:            "postBridgeAccepted",
	Path:            "bridge/accepted",
	Method:          http.MethodPost,
	Scoped:          true,
	JSONInputSchema: bridgeSchema,
	JSONInputValue:  func() interface{} { return &xcmtypes.BridgeAcceptedMessage{} },
	JSONOutputCode:  http.StatusAccepted,
	JSONHandler: func(r *APIRequest) (output interface{}, err error) {
		return nil, r.Or.Engine().OnBridgeOutboundAccepted(r.Ctx, r.Scope, r.Input.(*xcmtypes.BridgeAcceptedMessage))
	},
}

var postBridgeDelivered = &Route{
	Name:            "postBridgeDelivered",
	Path:            "bridge/delivered",
	Method:          http.MethodPost,
	Scoped:          true,
	JSONInputSchema: bridgeSchema,
	JSONInputValue:  func() interface{} { return &xcmtypes.BridgeDeliveredMessage{} },
	JSONOutputCode:  http.StatusAccepted,
	JSONHandler: func(r *APIRequest) (output interface{}, err error) {
		return nil, r.Or.Engine().OnBridgeOutboundDelivered(r.Ctx, r.Scope, r.Input.(*xcmtypes.BridgeDeliveredMessage))
	},
}

var postBridgeInbound = &Route{
	Name:            "postBridgeInbound",
	Path:            "bridge/inbound",
	Method:          http.MethodPost,
	Scoped:          true,
	JSONInputSchema: bridgeSchema,
	JSONInputValue:  func() interface{} { return &xcmtypes.BridgeInboundMessage{} },
	JSONOutputCode:  http.StatusAccepted,
	JSONHandler: func(r *APIRequest) (output interface{}, err error) {
		return nil, r.Or.Engine().OnBridgeInbound(r.Ctx, r.Scope, r.Input.(*xcmtypes.BridgeInboundMessage))
	},
}

var postSnowbridgeOutbound = &Route{
	Name:            "postSnowbridgeOutbound",
	Path:            "snowbridge/outbound",
	Method:          http.MethodPost,
	Scoped:          true,
	JSONInputSchema: snowbridgeSchema,
	JSONInputValue:  func() interface{} { return &xcmtypes.SnowbridgeOutboundMessage{} },
	JSONOutputCode:  http.StatusAccepted,
	JSONHandler: func(r *APIRequest) (output interface{}, err error) {
		return nil, r.Or.Engine().OnSnowbridgeOriginOutbound(r.Ctx, r.Scope, r.Input.(*xcmtypes.SnowbridgeOutboundMessage))
	},
}
