// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers contains the gateway's HTTP handlers. Handlers stay
// thin: pull the resolved identity from the context, delegate to the
// GatewayService, and map service errors to transport status codes.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianGateway/services/gateway/datatypes"
	"github.com/AleutianAI/AleutianGateway/services/gateway/middleware"
	"github.com/AleutianAI/AleutianGateway/services/gateway/services"
)

// CreateSession handles POST /sessions: start a new conversation for the
// authenticated user.
func CreateSession(svc *services.GatewayService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		sessionID := svc.CreateSession(c.Request.Context(), userID)
		c.JSON(http.StatusOK, datatypes.SessionCreateResponse{SessionId: sessionID})
	}
}

// ListSessions handles GET /sessions: all session ids owned by the
// authenticated user. A user with no sessions gets an empty list, never
// a 404.
func ListSessions(svc *services.GatewayService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		c.JSON(http.StatusOK, datatypes.SessionsListResponse{
			SessionIds: svc.ListSessions(c.Request.Context(), userID),
		})
	}
}

// GetSessionHistory handles GET /sessions/:sessionId/history: the full
// turn log in append order.
func GetSessionHistory(svc *services.GatewayService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		sessionID := c.Param("sessionId")

		history, err := svc.GetHistory(c.Request.Context(), userID, sessionID)
		if err != nil {
			slog.Info("History lookup failed", "sessionId", sessionID, "error", err)
			writeServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, datatypes.HistoryResponse{
			History:   history,
			SessionId: sessionID,
		})
	}
}
