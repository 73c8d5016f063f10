// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package llm abstracts the text-generation backend behind a single chat
// interface. The concrete backend is selected at startup via
// LLM_BACKEND_TYPE; the rest of the gateway only ever sees LLMClient.
package llm

import (
	"context"

	"github.com/AleutianAI/AleutianGateway/services/gateway/datatypes"
)

// GenerationParams carries optional sampling parameters. Nil fields keep
// the backend's defaults.
type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopK        *int     `json:"top_k"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// LLMClient is the standard interface for any LLM backend.
type LLMClient interface {
	// Chat sends a full transcript (system, user, and assistant turns in
	// order) and returns the assistant's reply text.
	Chat(ctx context.Context, messages []datatypes.Message, params GenerationParams) (string, error)
}
