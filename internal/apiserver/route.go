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
	"context"
	"net/http"

	"github.com/kaleido-io/xcmtracker/internal/orchestrator"
)

// Route defines each operation on the ingestion API. Having a thin declarative layer on top
// of Gorilla keeps the schema, the status code and the handler of each operation together.
type Route struct {
	// Name is the operation name, used in logs
	Name string
	// Path is a Gorilla mux path template, relative to /api/v1/
	Path string
	// Method is the HTTP method
	Method string
	// Scoped routes are served under scopes/{scope}/, and also at the bare path using the configured default scope
	Scoped bool
	// QueryParams are the names of the query parameters the handler reads
	QueryParams []string
	// JSONInputSchema is the JSON schema the body must satisfy before it is decoded
	JSONInputSchema string
	// JSONInputValue is a function that returns a pointer to a structure to take JSON input
	JSONInputValue func() interface{}
	// JSONOutputCode is the success response code
	JSONOutputCode int
	// JSONHandler handles the request, returning the output to serialize (or nil for no body)
	JSONHandler func(r *APIRequest) (output interface{}, err error)
}

// APIRequest is the context of one request, passed to the route handler
type APIRequest struct {
	Ctx   context.Context
	Or    orchestrator.Orchestrator
	Req   *http.Request
	Scope string
	PP    map[string]string
	QP    map[string]string
	Input interface{}
}
