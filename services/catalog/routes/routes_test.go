// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/filmcatalog/services/catalog/handlers"
	"github.com/AleutianAI/filmcatalog/services/catalog/observability"
)

// ============================================================================
// Test Setup
// ============================================================================

func init() {
	gin.SetMode(gin.TestMode)
}

// stubStore satisfies handlers.CatalogStore. Route registration never
// calls it.
type stubStore struct {
	handlers.CatalogStore
}

func registered(router *gin.Engine) map[string]bool {
	out := make(map[string]bool)
	for _, r := range router.Routes() {
		out[r.Method+" "+r.Path] = true
	}
	return out
}

// ============================================================================
// SetupRoutes Tests
// ============================================================================

func TestSetupRoutes_EntityRoutes(t *testing.T) {
	router := gin.New()
	SetupRoutes(router, handlers.Deps{Store: stubStore{}})
	routes := registered(router)

	for _, entity := range []string{"/Films", "/Genres", "/Directors"} {
		for _, want := range []string{
			"GET " + entity,
			"GET " + entity + "/Index",
			"GET " + entity + "/Details/:id",
			"GET " + entity + "/Create",
			"POST " + entity + "/Create",
			"GET " + entity + "/Edit/:id",
			"POST " + entity + "/Edit/:id",
			"GET " + entity + "/Delete/:id",
			"POST " + entity + "/Delete/:id",
		} {
			assert.True(t, routes[want], "missing route %s", want)
		}
	}

	for _, want := range []string{"GET /", "GET /About", "GET /health"} {
		assert.True(t, routes[want], "missing route %s", want)
	}
}

func TestSetupRoutes_MetricsOnlyWhenConfigured(t *testing.T) {
	router := gin.New()
	SetupRoutes(router, handlers.Deps{Store: stubStore{}})
	assert.False(t, registered(router)["GET /metrics"])

	router = gin.New()
	SetupRoutes(router, handlers.Deps{
		Store:   stubStore{},
		Metrics: observability.NewMetrics(prometheus.NewRegistry()),
	})
	assert.True(t, registered(router)["GET /metrics"])
}
