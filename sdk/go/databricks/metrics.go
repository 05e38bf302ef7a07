// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InstrumentTransport returns a RoundTripper that passes requests
// through to next (http.DefaultTransport if nil) and tracks the
// number and duration of requests, by response code and method, in
// reg.
//
// Use it as the Transport of the http.Client in Client.Client.
func InstrumentTransport(reg prometheus.Registerer, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "databricks",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Number of API requests made, by response code and method.",
	}, []string{"code", "method"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "databricks",
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "API request duration, by response code and method.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"code", "method"})
	reg.MustRegister(requests, duration)
	return promhttp.InstrumentRoundTripperCounter(requests,
		promhttp.InstrumentRoundTripperDuration(duration, next))
}
