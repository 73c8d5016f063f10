// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianGateway/services/gateway/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthedRouter(registry *auth.KeyRegistry) *gin.Engine {
	router := gin.New()
	router.GET("/probe", APIKeyAuth(registry), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})
	return router
}

func TestAPIKeyAuth_ValidKeyResolvesUser(t *testing.T) {
	router := newAuthedRouter(auth.NewKeyRegistry("k1:alice"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set(APIKeyHeader, "k1")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "alice", body["user_id"])
}

func TestAPIKeyAuth_MissingKey(t *testing.T) {
	router := newAuthedRouter(auth.NewKeyRegistry("k1:alice"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/probe", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "API key is missing", body["error"])
}

func TestAPIKeyAuth_InvalidKey(t *testing.T) {
	router := newAuthedRouter(auth.NewKeyRegistry("k1:alice"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set(APIKeyHeader, "wrong-key")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid API key", body["error"])
}

func TestGetUserID_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)

	assert.Empty(t, GetUserID(c))
}

func TestSetUserID_RoundTrip(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)

	SetUserID(c, "alice")

	assert.Equal(t, "alice", GetUserID(c))
}
