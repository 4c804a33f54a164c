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

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/kaleido-io/xcmtracker/internal/telemetry"
	"github.com/kaleido-io/xcmtracker/pkg/kvstore"
	"github.com/kaleido-io/xcmtracker/pkg/xcmtypes"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserverCounts(t *testing.T) {
	Clear()
	o := NewObserver()
	o.Observe(telemetry.Notified{Type: xcmtypes.JourneyEventTypeSent})
	o.Observe(telemetry.Notified{Type: xcmtypes.JourneyEventTypeSent})
	o.Observe(telemetry.NotifyFailed{Type: xcmtypes.JourneyEventTypeTimeout})
	o.Observe(telemetry.Persisted{Namespace: kvstore.NamespaceOutbound})
	o.Observe(telemetry.Matched{Namespace: kvstore.NamespaceOutbound})
	o.Observe(telemetry.Swept{Namespace: kvstore.NamespaceHop})
	o.Observe(telemetry.HintIndexed{})

	assert.Equal(t, float64(2), testutil.ToFloat64(JourneyEventsCounter.WithLabelValues("sent")))
	assert.Equal(t, float64(1), testutil.ToFloat64(NotifyFailuresCounter.WithLabelValues("timeout")))
	assert.Equal(t, float64(1), testutil.ToFloat64(FragmentsPersistedCounter.WithLabelValues("outbound")))
	assert.Equal(t, float64(1), testutil.ToFloat64(FragmentsMatchedCounter.WithLabelValues("outbound")))
	assert.Equal(t, float64(1), testutil.ToFloat64(FragmentsSweptCounter.WithLabelValues("hop")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HintsIndexedCounter))
}

func TestRegistrySingleton(t *testing.T) {
	Clear()
	r1 := Registry()
	assert.Same(t, r1, Registry())
	Clear()
	assert.NotSame(t, r1, Registry())
}

func TestMiddleware(t *testing.T) {
	Clear()
	inst := GetAPIServerInstrumentation()
	assert.Same(t, inst, GetAPIServerInstrumentation())

	r := mux.NewRouter()
	r.Use(inst.Middleware)
	r.HandleFunc("/api/v1/scopes/{scope}/inbound", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{}`))
	})
	r.HandleFunc("/plain", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`ok`))
	})

	for _, path := range []string{"/api/v1/scopes/s1/inbound", "/api/v1/scopes/s2/inbound", "/plain"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(inst.reqTotal.WithLabelValues("202", "POST", "/api/v1/scopes/{scope}/inbound")))
	assert.Equal(t, float64(1), testutil.ToFloat64(inst.reqTotal.WithLabelValues("200", "POST", "/plain")))
}

func TestGetRouteNoMux(t *testing.T) {
	assert.Equal(t, "unknown", getRoute(httptest.NewRequest(http.MethodGet, "/x", nil)))
}
