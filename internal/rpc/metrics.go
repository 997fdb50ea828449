// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rpc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the router-level Prometheus counters, grounded on the
// teacher's observability/metrics.go CounterVec-over-promauto pattern.
type Metrics struct {
	ToolCalls  *prometheus.CounterVec
	ToolErrors *prometheus.CounterVec
}

// NewMetrics registers the router's counters against the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		ToolCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sports_tool_server_tool_calls_total",
			Help: "Count of completed tool invocations by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		ToolErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sports_tool_server_tool_handler_errors_total",
			Help: "Count of tool handler errors (panics or invoke-level failures) by tool name.",
		}, []string{"tool"}),
	}
}
