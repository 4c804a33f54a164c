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
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelCode   = "code"
	labelMethod = "method"
	labelRoute  = "route"
)

// Instrumentation is a mux middleware that records request counts, durations and sizes per route template
type Instrumentation struct {
	reqTotal        *prometheus.CounterVec
	reqDurationSecs *prometheus.HistogramVec
	resSizeBytes    *prometheus.SummaryVec
}

func NewInstrumentation(namespace, subsystem string, registerer prometheus.Registerer) *Instrumentation {
	i := &Instrumentation{}
	i.reqTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "requests_total",
		Subsystem: subsystem,
		Namespace: namespace,
		Help:      "The total number of requests received",
	}, []string{labelCode, labelMethod, labelRoute})

	i.reqDurationSecs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:      "request_duration_seconds",
		Subsystem: subsystem,
		Namespace: namespace,
		Help:      "Histogram of the request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{labelCode, labelMethod, labelRoute})

	i.resSizeBytes = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:      "response_size_bytes",
		Subsystem: subsystem,
		Namespace: namespace,
		Help:      "Summary of response bytes sent",
	}, []string{labelCode, labelMethod, labelRoute})

	registerer.MustRegister(
		i.reqTotal,
		i.reqDurationSecs,
		i.resSizeBytes,
	)
	return i
}

type statusResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// Middleware satisifies the mux middleware interface
func (i *Instrumentation) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		sw := &statusResponseWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		labels := []string{strconv.Itoa(sw.status), r.Method, getRoute(r)}
		i.reqTotal.WithLabelValues(labels...).Inc()
		i.resSizeBytes.WithLabelValues(labels...).Observe(float64(sw.size))
		i.reqDurationSecs.WithLabelValues(labels...).Observe(time.Since(startTime).Seconds())
	})
}

// getRoute uses the route template, so path parameters like the scope do not explode the label cardinality
func getRoute(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if path, err := route.GetPathTemplate(); err == nil {
			return path
		}
	}
	return "unknown"
}
