// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the gateway.
//
// Metrics are exposed on /metrics and cover the request surface, session
// population, turn-log growth, and upstream agent latency. All operations
// are thread-safe via Prometheus's internal locking.
package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "aleutian"
	gatewaySubsystem = "gateway"
)

// Metrics holds all Prometheus metrics for the gateway. Initialize once
// at startup via InitMetrics. A nil *Metrics is a valid no-op receiver,
// which keeps instrumented code paths testable without a registry.
type Metrics struct {
	// RequestsTotal counts HTTP requests by route and status code.
	RequestsTotal *prometheus.CounterVec

	// ActiveSessions tracks the number of sessions created since start.
	// Sessions are never destroyed in-process, so this only grows.
	ActiveSessions prometheus.Gauge

	// TurnPairsTotal counts turn pairs appended across all sessions.
	TurnPairsTotal prometheus.Counter

	// UpstreamLatencySeconds measures agent invocation latency.
	UpstreamLatencySeconds prometheus.Histogram

	// UpstreamErrorsTotal counts failed agent invocations.
	UpstreamErrorsTotal prometheus.Counter
}

// DefaultMetrics is the process-wide metrics instance, set by InitMetrics.
var DefaultMetrics *Metrics

// InitMetrics creates and registers all gateway metrics on the default
// Prometheus registry. Call once at startup, before serving traffic.
func InitMetrics() *Metrics {
	m := &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: gatewaySubsystem,
			Name:      "requests_total",
			Help:      "HTTP requests handled, by route and status code.",
		}, []string{"route", "status"}),

		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: gatewaySubsystem,
			Name:      "active_sessions",
			Help:      "Sessions created since process start.",
		}),

		TurnPairsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: gatewaySubsystem,
			Name:      "turn_pairs_total",
			Help:      "User/assistant turn pairs appended to session logs.",
		}),

		UpstreamLatencySeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: gatewaySubsystem,
			Name:      "upstream_latency_seconds",
			Help:      "Latency of agent invocations, including retrieval.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),

		UpstreamErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: gatewaySubsystem,
			Name:      "upstream_errors_total",
			Help:      "Agent invocations that failed.",
		}),
	}
	DefaultMetrics = m
	return m
}

// RequestMiddleware returns a gin middleware that counts every request by
// matched route and response status.
func (m *Metrics) RequestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// SessionCreated records one new session.
func (m *Metrics) SessionCreated() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}

// TurnPairAppended records one appended turn pair.
func (m *Metrics) TurnPairAppended() {
	if m == nil {
		return
	}
	m.TurnPairsTotal.Inc()
}

// ObserveUpstream records the latency and outcome of one agent invocation.
func (m *Metrics) ObserveUpstream(elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.UpstreamLatencySeconds.Observe(elapsed.Seconds())
	if err != nil {
		m.UpstreamErrorsTotal.Inc()
	}
}
