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
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianGateway/services/gateway/datatypes"
	"github.com/AleutianAI/AleutianGateway/services/gateway/middleware"
	"github.com/AleutianAI/AleutianGateway/services/gateway/services"
	"github.com/AleutianAI/AleutianGateway/services/gateway/store"
)

// SendMessage handles POST /messages: run one exchange against an
// existing session and return the agent's reply.
func SendMessage(svc *services.GatewayService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		var req datatypes.MessageRequest
		if err := c.BindJSON(&req); err != nil {
			slog.Error("Failed to parse the message request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		reply, err := svc.SendMessage(c.Request.Context(), userID, req.SessionId, req.Message)
		if err != nil {
			slog.Error("SendMessage failed",
				"sessionId", req.SessionId, "userId", userID, "error", err)
			writeServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, datatypes.MessageResponse{
			Response:  reply,
			SessionId: req.SessionId,
		})
	}
}

// writeServiceError maps service-layer errors to transport status codes:
// unknown session → 404, upstream agent failure → 502, anything else →
// 500. Business logic never sets status codes itself.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found for this user"})
	case services.IsUpstreamError(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
