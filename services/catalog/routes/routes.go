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
	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/filmcatalog/services/catalog/handlers"
)

// SetupRoutes registers every catalog page plus /health and, when metrics
// are configured, /metrics. Unknown paths render the 404 page.
//
// Paths keep the capitalised MVC shape ("/Films/Details/3") that bookmarks
// and browser tests depend on.
func SetupRoutes(router *gin.Engine, deps handlers.Deps) {
	router.GET("/health", handlers.HealthCheck(deps.Store))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	router.GET("/", handlers.Home(deps))
	router.GET("/Home", handlers.Home(deps))
	router.GET("/Home/Index", handlers.Home(deps))
	router.GET("/About", handlers.About)
	router.GET("/Home/About", handlers.About)

	registerEntity(router.Group("/Films"), handlers.NewFilmsHandler(deps))
	registerEntity(router.Group("/Genres"), handlers.NewGenresHandler(deps))
	registerEntity(router.Group("/Directors"), handlers.NewDirectorsHandler(deps))

	router.NoRoute(handlers.NotFound)
}

func registerEntity(group *gin.RouterGroup, h handlers.EntityHandler) {
	group.GET("", h.Index)
	group.GET("/Index", h.Index)
	group.GET("/Details/:id", h.Details)
	group.GET("/Create", h.CreateForm)
	group.POST("/Create", h.Create)
	group.GET("/Edit/:id", h.EditForm)
	group.POST("/Edit/:id", h.Edit)
	group.GET("/Delete/:id", h.DeleteConfirm)
	group.POST("/Delete/:id", h.Delete)
}
