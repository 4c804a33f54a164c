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

package orchestrator

import (
	"context"
	"time"
)

// Status is the health summary returned on the status API
type Status struct {
	Store   string `json:"store"`
	Started string `json:"started,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

func (or *orchestrator) GetStatus(ctx context.Context) *Status {
	status := &Status{}
	if or.store != nil {
		status.Store = or.store.Name()
	}
	if or.started != nil {
		status.Started = or.started.String()
		status.Uptime = time.Since(time.Time(*or.started)).Round(time.Second).String()
	}
	return status
}
