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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/kaleido-io/xcmtracker/internal/config"
	"github.com/kaleido-io/xcmtracker/internal/i18n"
	"github.com/kaleido-io/xcmtracker/internal/log"
	"github.com/kaleido-io/xcmtracker/internal/metrics"
	"github.com/kaleido-io/xcmtracker/internal/orchestrator"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xeipuuv/gojsonschema"
)

var xtcodeExtractor = regexp.MustCompile(`^(XT\d+):`)

// Server is the external interface for the API Server
type Server interface {
	Serve(ctx context.Context, o orchestrator.Orchestrator) error
}

type apiServer struct {
	apiTimeout     time.Duration
	defaultScope   string
	metricsEnabled bool
	schemas        map[string]*gojsonschema.Schema
}

// RESTError is the body of every error response
type RESTError struct {
	Error string `json:"error"`
}

func NewAPIServer() Server {
	return &apiServer{
		apiTimeout:     config.GetDuration(config.APIRequestTimeout),
		defaultScope:   config.GetString(config.MatchingScope),
		metricsEnabled: config.GetBool(config.MetricsEnabled),
	}
}

// Serve is the main entry point for the API Server. It returns when the context is cancelled,
// or either listener fails.
func (as *apiServer) Serve(ctx context.Context, o orchestrator.Orchestrator) (err error) {
	httpErrChan := make(chan error, 1)
	metricsErrChan := make(chan error, 1)

	r, err := as.createMuxRouter(ctx, o)
	if err != nil {
		return err
	}
	apiHTTPServer, err := newHTTPServer(ctx, "api", r, httpErrChan, &httpServerConf{
		address:      config.GetString(config.HTTPAddress),
		port:         config.GetUint(config.HTTPPort),
		readTimeout:  config.GetDuration(config.HTTPReadTimeout),
		writeTimeout: config.GetDuration(config.HTTPWriteTimeout),
		cors:         true,
	})
	if err != nil {
		return err
	}
	go apiHTTPServer.serveHTTP(ctx)

	if as.metricsEnabled {
		metricsHTTPServer, err := newHTTPServer(ctx, "metrics", as.createMetricsMuxRouter(), metricsErrChan, &httpServerConf{
			address:      config.GetString(config.MetricsAddress),
			port:         config.GetUint(config.MetricsPort),
			readTimeout:  config.GetDuration(config.HTTPReadTimeout),
			writeTimeout: config.GetDuration(config.HTTPWriteTimeout),
		})
		if err != nil {
			return err
		}
		go metricsHTTPServer.serveHTTP(ctx)
	}

	return as.waitForServerStop(httpErrChan, metricsErrChan)
}

func (as *apiServer) waitForServerStop(httpErrChan, metricsErrChan chan error) error {
	select {
	case err := <-httpErrChan:
		return err
	case err := <-metricsErrChan:
		return err
	}
}

func (as *apiServer) getParams(req *http.Request, route *Route) (queryParams, pathParams map[string]string) {
	queryParams = make(map[string]string)
	pathParams = mux.Vars(req)
	for _, qp := range route.QueryParams {
		if val := req.URL.Query().Get(qp); val != "" {
			queryParams[qp] = val
		}
	}
	return queryParams, pathParams
}

func (as *apiServer) decodeInput(req *http.Request, route *Route) (interface{}, error) {
	ctx := req.Context()
	b, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgJSONDecodeFailed)
	}
	if schema, ok := as.schemas[route.Name]; ok {
		if err := validateInput(ctx, schema, b); err != nil {
			return nil, err
		}
	}
	input := route.JSONInputValue()
	if err := json.Unmarshal(b, input); err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgJSONDecodeFailed)
	}
	return input, nil
}

func (as *apiServer) routeHandler(o orchestrator.Orchestrator, route *Route, scoped bool) http.HandlerFunc {
	return as.apiWrapper(func(res http.ResponseWriter, req *http.Request) (int, error) {
		var input interface{}
		var err error
		if route.JSONInputValue != nil {
			if contentType := req.Header.Get("Content-Type"); contentType != "" && !isJSON(contentType) {
				return http.StatusUnsupportedMediaType, i18n.NewError(req.Context(), i18n.MsgInvalidContentType)
			}
			if input, err = as.decodeInput(req, route); err != nil {
				return http.StatusBadRequest, err
			}
		}

		queryParams, pathParams := as.getParams(req, route)
		r := &APIRequest{
			Ctx:   req.Context(),
			Or:    o,
			Req:   req,
			PP:    pathParams,
			QP:    queryParams,
			Input: input,
		}
		if route.Scoped {
			r.Scope = as.defaultScope
			if scoped {
				r.Scope = pathParams["scope"]
			}
			r.Ctx = log.WithLogField(r.Ctx, "scope", r.Scope)
		}
		output, err := route.JSONHandler(r)
		if err != nil {
			return http.StatusInternalServerError, err
		}
		return as.handleOutput(req.Context(), res, route.JSONOutputCode, output)
	})
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "application/json")
}

func (as *apiServer) handleOutput(ctx context.Context, res http.ResponseWriter, status int, output interface{}) (int, error) {
	if output == nil {
		res.WriteHeader(status)
		return status, nil
	}
	b, err := json.Marshal(output)
	if err != nil {
		err = i18n.WrapError(ctx, err, i18n.MsgResponseMarshalError)
		log.L(ctx).Errorf(err.Error())
		return http.StatusInternalServerError, err
	}
	res.Header().Add("Content-Type", "application/json")
	res.WriteHeader(status)
	_, _ = res.Write(b)
	return status, nil
}

func (as *apiServer) apiWrapper(handler func(res http.ResponseWriter, req *http.Request) (status int, err error)) http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {

		// Server-side timeout on each request, passed down to the store
		ctx, cancel := context.WithTimeout(req.Context(), as.apiTimeout)
		httpReqID := xcmtypes.ShortID()
		ctx = log.WithLogField(ctx, "httpreq", httpReqID)
		req = req.WithContext(ctx)
		defer cancel()

		l := log.L(ctx)
		l.Infof("--> %s %s", req.Method, req.URL.Path)
		startTime := time.Now()
		status, err := handler(res, req)
		durationMS := float64(time.Since(startTime)) / float64(time.Millisecond)
		if err != nil {

			// Coded errors carry a status hint, which overrides the default of the route
			xtcodeExtract := xtcodeExtractor.FindStringSubmatch(err.Error())
			if len(xtcodeExtract) >= 2 {
				if statusHint, ok := i18n.GetStatusHint(xtcodeExtract[1]); ok {
					status = statusHint
				}
			}

			if status != http.StatusRequestTimeout {
				select {
				case <-ctx.Done():
					l.Errorf("Request failed and context is closed. Returning %d (overriding %d): %s", http.StatusRequestTimeout, status, err)
					status = http.StatusRequestTimeout
					err = i18n.WrapError(ctx, err, i18n.MsgRequestTimeout, httpReqID, durationMS)
				default:
				}
			}

			if status < 300 {
				status = http.StatusInternalServerError
			}
			l.Infof("<-- %s %s [%d] (%.2fms): %s", req.Method, req.URL.Path, status, durationMS, err)
			res.Header().Add("Content-Type", "application/json")
			res.WriteHeader(status)
			_ = json.NewEncoder(res).Encode(&RESTError{
				Error: err.Error(),
			})
		} else {
			l.Infof("<-- %s %s [%d] (%.2fms)", req.Method, req.URL.Path, status, durationMS)
		}
	}
}

func (as *apiServer) notFoundHandler(res http.ResponseWriter, req *http.Request) (status int, err error) {
	return http.StatusNotFound, i18n.NewError(req.Context(), i18n.Msg404NotFound)
}

func (as *apiServer) createMuxRouter(ctx context.Context, o orchestrator.Orchestrator) (*mux.Router, error) {
	schemas, err := compileSchemas(ctx, routes)
	if err != nil {
		return nil, err
	}
	as.schemas = schemas

	r := mux.NewRouter()
	if as.metricsEnabled {
		r.Use(metrics.GetAPIServerInstrumentation().Middleware)
	}
	for _, route := range routes {
		if route.Scoped {
			r.HandleFunc(fmt.Sprintf("/api/v1/scopes/{scope}/%s", route.Path), as.routeHandler(o, route, true)).
				Methods(route.Method)
		}
		r.HandleFunc(fmt.Sprintf("/api/v1/%s", route.Path), as.routeHandler(o, route, false)).
			Methods(route.Method)
	}
	if ws := o.EventStream(); ws != nil {
		r.Handle("/ws", ws)
	}
	r.NotFoundHandler = as.apiWrapper(as.notFoundHandler)
	return r, nil
}

func (as *apiServer) createMetricsMuxRouter() *mux.Router {
	r := mux.NewRouter()
	r.Path(config.GetString(config.MetricsPath)).Handler(promhttp.InstrumentMetricHandler(metrics.Registry(),
		promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))
	return r
}
