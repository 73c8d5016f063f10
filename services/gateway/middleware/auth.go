// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the gateway service.
//
// The auth middleware extracts the API key from the x-api-key header,
// resolves it to a user identity through the KeyRegistry, and stores the
// identity in the Gin context for downstream handlers:
//
//	Request
//	   │
//	   ▼
//	APIKeyAuth
//	   │
//	   ├─► Extract key from "x-api-key" header
//	   │
//	   ├─► registry.Resolve(key)
//	   │
//	   └─► Store user id in context
//	           │
//	           ▼
//	       Handler (retrieves via GetUserID)
//
// Missing and invalid keys both abort with 401; they differ only in the
// error message, never in status or shape.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianGateway/services/gateway/auth"
)

// APIKeyHeader is the request header carrying the caller's credential.
const APIKeyHeader = "x-api-key"

// userIDKey is the context key for the resolved user identity.
// Using a namespaced key prevents collisions with other context values.
const userIDKey = "aleutian_user_id"

// SetUserID stores the resolved user identity in the Gin context.
// Called by APIKeyAuth after successful resolution; exported for tests
// that exercise handlers without the middleware.
func SetUserID(c *gin.Context, userID string) {
	c.Set(userIDKey, userID)
}

// GetUserID retrieves the resolved user identity from the Gin context.
// Returns "" if the request was not authenticated.
func GetUserID(c *gin.Context) string {
	if v, exists := c.Get(userIDKey); exists {
		if userID, ok := v.(string); ok {
			return userID
		}
	}
	return ""
}

// APIKeyAuth creates a Gin middleware that authenticates requests with
// the given registry. Every route behind it requires a recognized key.
func APIKeyAuth(registry *auth.KeyRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(APIKeyHeader)

		userID, err := registry.Resolve(apiKey)
		if err != nil {
			// Same status for missing and unknown keys; the message is
			// the only difference, matching the original contract.
			msg := "Invalid API key"
			if apiKey == "" {
				msg = "API key is missing"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		SetUserID(c, userID)
		c.Next()
	}
}
