// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

// Conversation roles. Session turn logs only ever contain RoleUser and
// RoleAssistant; RoleSystem is used when assembling LLM transcripts.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation turn: a role plus its text content.
// Messages are immutable once appended to a session's turn log.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
