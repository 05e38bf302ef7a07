// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databrickstest

import (
	"bytes"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"gopkg.in/check.v1"
)

// GatherMetricsAsString returns everything in reg, in the text
// exposition format.
func GatherMetricsAsString(reg *prometheus.Registry) string {
	buf := bytes.NewBuffer(nil)
	enc := expfmt.NewEncoder(buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	got, _ := reg.Gather()
	for _, mf := range got {
		enc.Encode(mf)
	}
	return buf.String()
}

// GetMetricValue returns the current value of the indicated counter
// or gauge, or the sample count of the indicated histogram. Labels
// are given as name/value pairs, in the order prometheus sorts them
// (alphabetically by name):
//
//	GetMetricValue(c, reg, "databricks_client_requests_total", "code", "200", "method", "get")
func GetMetricValue(c *check.C, reg *prometheus.Registry, name string, labels ...string) float64 {
	gather, err := reg.Gather()
	c.Assert(err, check.IsNil)
	for _, mf := range gather {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if !labelsMatch(m.Label, labels) {
				continue
			}
			switch {
			case m.Counter != nil:
				return m.Counter.GetValue()
			case m.Gauge != nil:
				return m.Gauge.GetValue()
			case m.Histogram != nil:
				return float64(m.Histogram.GetSampleCount())
			case m.Untyped != nil:
				return m.Untyped.GetValue()
			}
			c.Fatalf("GetMetricValue: unsupported metric type: %s", m)
		}
	}
	c.Fatalf("metric not found: %s %v", name, labels)
	return -1
}

func labelsMatch(have []*dto.LabelPair, want []string) bool {
	if 2*len(have) != len(want) {
		return false
	}
	for i, lp := range have {
		if lp.GetName() != want[i*2] || lp.GetValue() != want[i*2+1] {
			return false
		}
	}
	return true
}
