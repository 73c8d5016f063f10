// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the wire-level request and response types for
// the gateway HTTP API, plus the Message type shared by the session store,
// the replay logic, and the LLM clients.
package datatypes

// SessionCreateResponse is returned by POST /sessions.
type SessionCreateResponse struct {
	SessionId string `json:"session_id"`
}

// MessageRequest is the body of POST /messages. Both fields are required;
// gin's binding layer rejects requests missing either one.
type MessageRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionId string `json:"session_id" binding:"required"`
}

// MessageResponse is returned by POST /messages.
type MessageResponse struct {
	Response  string `json:"response"`
	SessionId string `json:"session_id"`
}

// HistoryResponse is returned by GET /sessions/{session_id}/history.
// History preserves exact append order: user/assistant pairs, oldest first.
type HistoryResponse struct {
	History   []Message `json:"history"`
	SessionId string    `json:"session_id"`
}

// SessionsListResponse is returned by GET /sessions. SessionIds is always
// a list, never null, so an identity with no sessions gets an empty array.
type SessionsListResponse struct {
	SessionIds []string `json:"session_ids"`
}
