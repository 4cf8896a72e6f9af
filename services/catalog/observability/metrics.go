// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides metrics for the catalog service.
//
// # Description
//
// Prometheus metrics for the HTTP surface and for catalog mutations:
//   - Request counters and latency histograms (by method, route, status)
//   - Mutation counters (by entity, operation, outcome)
//
// Metrics live in a private registry handed to NewMetrics, so tests and
// multiple service instances never collide on the global registry.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
// A nil *Metrics is valid and records nothing.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// =============================================================================
// Metric Definitions
// =============================================================================

const metricsNamespace = "filmcatalog"

const (
	httpSubsystem    = "http"
	catalogSubsystem = "catalog"
)

// Metrics holds all Prometheus metrics for the catalog service.
//
// # Fields
//
//   - RequestsTotal: Counter of HTTP requests by method, route and status.
//   - RequestDurationSeconds: Histogram of HTTP latency by method and route.
//   - MutationsTotal: Counter of catalog writes by entity, operation and outcome.
type Metrics struct {
	// Labels: method, route, status
	RequestsTotal *prometheus.CounterVec

	// Labels: method, route
	RequestDurationSeconds *prometheus.HistogramVec

	// Labels: entity (film, genre, director), operation (create, update,
	// delete), outcome (see Outcome)
	MutationsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers the catalog metrics on reg, together
// with the Go runtime and process collectors.
//
// # Examples
//
//	metrics := observability.NewMetrics(prometheus.NewRegistry())
//	router.Use(metrics.Middleware())
//	router.GET("/metrics", gin.WrapH(metrics.Handler()))
//
// # Limitations
//
//   - Panics if called twice with the same registry (duplicate registration).
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: httpSubsystem,
				Name:      "requests_total",
				Help:      "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),

		RequestDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: httpSubsystem,
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"method", "route"},
		),

		MutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: catalogSubsystem,
				Name:      "mutations_total",
				Help:      "Catalog writes by entity, operation and outcome",
			},
			[]string{"entity", "operation", "outcome"},
		),

		registry: reg,
	}
}

// =============================================================================
// Label Values
// =============================================================================

// Entity names a catalog entity for metrics labeling.
type Entity string

const (
	EntityFilm     Entity = "film"
	EntityGenre    Entity = "genre"
	EntityDirector Entity = "director"
)

// Operation names a catalog write.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Outcome categorizes the result of a write.
type Outcome string

const (
	// OutcomeSuccess indicates the write was committed.
	OutcomeSuccess Outcome = "success"

	// OutcomeValidation indicates the candidate broke a rule.
	OutcomeValidation Outcome = "validation"

	// OutcomeNotFound indicates the target row did not exist.
	OutcomeNotFound Outcome = "not_found"

	// OutcomeConflict indicates a refused delete or a concurrent update.
	OutcomeConflict Outcome = "conflict"

	// OutcomeError indicates a store failure.
	OutcomeError Outcome = "error"
)

// =============================================================================
// Helper Methods
// =============================================================================

// RecordMutation counts one catalog write.
func (m *Metrics) RecordMutation(entity Entity, op Operation, outcome Outcome) {
	if m == nil {
		return
	}
	m.MutationsTotal.WithLabelValues(string(entity), string(op), string(outcome)).Inc()
}

// Middleware records request count and latency. Routes are labeled by
// their pattern so ids do not explode label cardinality; unmatched
// requests are labeled "unmatched".
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDurationSeconds.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
