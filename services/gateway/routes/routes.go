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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/AleutianGateway/services/gateway/auth"
	"github.com/AleutianAI/AleutianGateway/services/gateway/handlers"
	"github.com/AleutianAI/AleutianGateway/services/gateway/middleware"
	"github.com/AleutianAI/AleutianGateway/services/gateway/services"
)

// SetupRoutes registers the gateway's HTTP surface. Every conversational
// route requires an x-api-key header; only /metrics is open, for the
// scrape infrastructure.
func SetupRoutes(router *gin.Engine, registry *auth.KeyRegistry,
	svc *services.GatewayService) {

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := router.Group("/", middleware.APIKeyAuth(registry))
	{
		authed.GET("/health", handlers.HealthCheck)
		authed.POST("/sessions", handlers.CreateSession(svc))
		authed.GET("/sessions", handlers.ListSessions(svc))
		authed.GET("/sessions/:sessionId/history", handlers.GetSessionHistory(svc))
		authed.POST("/messages", handlers.SendMessage(svc))
	}
}
