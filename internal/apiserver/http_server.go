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
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kaleido-io/xcmtracker/internal/config"
	"github.com/kaleido-io/xcmtracker/internal/i18n"
	"github.com/kaleido-io/xcmtracker/internal/log"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
	"github.com/rs/cors"
)

type httpServerConf struct {
	address      string
	port         uint
	readTimeout  time.Duration
	writeTimeout time.Duration
	cors         bool
}

type httpServer struct {
	name    string
	s       *http.Server
	l       net.Listener
	conf    *httpServerConf
	onClose chan error
}

func newHTTPServer(ctx context.Context, name string, r *mux.Router, onClose chan error, conf *httpServerConf) (hs *httpServer, err error) {
	hs = &httpServer{
		name:    name,
		onClose: onClose,
		conf:    conf,
	}
	hs.l, err = hs.createListener(ctx)
	if err == nil {
		hs.s = hs.createServer(ctx, r)
	}
	return hs, err
}

func (hs *httpServer) createListener(ctx context.Context) (net.Listener, error) {
	listenAddr := fmt.Sprintf("%s:%d", hs.conf.address, hs.conf.port)
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgAPIServerStartFailed, listenAddr)
	}
	log.L(ctx).Infof("%s listening on HTTP %s", hs.name, listener.Addr())
	return listener, err
}

func (hs *httpServer) createServer(ctx context.Context, r *mux.Router) *http.Server {
	var handler http.Handler = r
	if hs.conf.cors {
		handler = wrapCorsIfEnabled(ctx, r)
	}
	return &http.Server{
		Handler:      handler,
		WriteTimeout: hs.conf.writeTimeout,
		ReadTimeout:  hs.conf.readTimeout,
		ConnContext: func(newCtx context.Context, c net.Conn) context.Context {
			l := log.L(ctx).WithField("req", xcmtypes.ShortID())
			newCtx = log.WithLogger(newCtx, l)
			l.Debugf("New HTTP connection: remote=%s local=%s", c.RemoteAddr().String(), c.LocalAddr().String())
			return newCtx
		},
	}
}

func (hs *httpServer) serveHTTP(ctx context.Context) {
	serverEnded := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			log.L(ctx).Infof("%s server context cancelled - shutting down", hs.name)
			hs.s.Close()
		case <-serverEnded:
			return
		}
	}()

	err := hs.s.Serve(hs.l)
	if err == http.ErrServerClosed {
		err = nil
	}
	close(serverEnded)
	log.L(ctx).Infof("%s server complete", hs.name)

	hs.onClose <- err
}

func wrapCorsIfEnabled(ctx context.Context, chain http.Handler) http.Handler {
	if !config.GetBool(config.CorsEnabled) {
		return chain
	}
	corsOptions := cors.Options{
		AllowedOrigins:   config.GetStringSlice(config.CorsAllowedOrigins),
		AllowedMethods:   config.GetStringSlice(config.CorsAllowedMethods),
		AllowedHeaders:   config.GetStringSlice(config.CorsAllowedHeaders),
		AllowCredentials: config.GetBool(config.CorsAllowCredentials),
		MaxAge:           config.GetInt(config.CorsMaxAge),
		Debug:            config.GetBool(config.CorsDebug),
	}
	log.L(ctx).Debugf("CORS origins=%v methods=%v headers=%v creds=%t maxAge=%d",
		corsOptions.AllowedOrigins,
		corsOptions.AllowedMethods,
		corsOptions.AllowedHeaders,
		corsOptions.AllowCredentials,
		corsOptions.MaxAge,
	)
	return cors.New(corsOptions).Handler(chain)
}
