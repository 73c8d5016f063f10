// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package agent is the language-generation capability the gateway
// delegates to. Each request gets a fresh invocation seeded with the
// replayed prior turns; the agent holds no conversation state of its own.
package agent

import (
	"context"

	"github.com/AleutianAI/AleutianGateway/services/gateway/datatypes"
)

// Agent runs one generation turn: given the replayed prior context and
// the caller's new message, it produces the assistant's reply text.
//
// Implementations must be safe for concurrent use; the gateway invokes
// them from many sessions in parallel.
type Agent interface {
	Run(ctx context.Context, prior []datatypes.Message, message string) (string, error)
}
