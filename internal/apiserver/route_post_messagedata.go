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

	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
)

var postMessageData = &Route{
	Name:            "postMessageData",
	Path:            "messagedata",
	Method:          http.MethodPost,
	JSONInputSchema: messageDataSchema,
	JSONInputValue:  func() interface{} { return &xcmtypes.MessageDataHint{} },
	JSONOutputCode:  http.StatusAccepted,
	JSONHandler: func(r *APIRequest) (output interface{}, err error) {
		return nil, r.Or.Engine().OnMessageData(r.Ctx, r.Input.(*xcmtypes.MessageDataHint))
	},
}
