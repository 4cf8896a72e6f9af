// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/filmcatalog/services/catalog/views"
)

// topFilmsOnHome is how many films the home page lists.
const topFilmsOnHome = 5

// Home renders catalog counts and the best rated films.
func Home(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		stats, err := deps.Store.Stats(ctx)
		if err != nil {
			renderStoreError(c, deps.logger(), err)
			return
		}
		top, err := deps.Store.TopFilms(ctx, topFilmsOnHome)
		if err != nil {
			renderStoreError(c, deps.logger(), err)
			return
		}
		renderPage(c, http.StatusOK, views.PageHome, views.Page{
			Title: "Головна",
			Body: views.HomeBody{
				Films:     stats.Films,
				Genres:    stats.Genres,
				Directors: stats.Directors,
				TopFilms:  top,
			},
		})
	}
}

// About renders the static about page.
func About(c *gin.Context) {
	renderPage(c, http.StatusOK, views.PageAbout, views.Page{Title: "Про застосунок"})
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// healthPingTimeout bounds the store ping of a health check.
const healthPingTimeout = 2 * time.Second

// HealthCheck reports liveness and store reachability as JSON.
//
// # Outputs
//
//   - 200 {"status":"ok","store":"up"} when the store answers.
//   - 503 {"status":"degraded","store":"down"} otherwise.
func HealthCheck(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "store": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "up"})
	}
}
