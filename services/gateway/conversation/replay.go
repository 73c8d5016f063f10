// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package conversation rebuilds the prior-turn context an agent invocation
// is seeded with. Sessions hold no agent state between requests; every
// request constructs a fresh invocation and replays the session's turn log
// into it through a Replayer.
package conversation

import "github.com/AleutianAI/AleutianGateway/services/gateway/datatypes"

// Replayer projects a session's turn log into the context handed to a new
// agent invocation. It is a read-only projection: the input slice is never
// mutated and append order is preserved exactly.
type Replayer struct {
	// UserTurnsOnly drops assistant turns from the replayed context.
	// This reproduces the historical gateway behavior, which seeded the
	// agent with only the caller's prior messages. The full alternating
	// transcript (false) is the default; flip this only to compare
	// against the legacy replay.
	UserTurnsOnly bool
}

// NewReplayer creates a Replayer. userTurnsOnly selects the legacy
// user-messages-only projection; pass false for the full transcript.
func NewReplayer(userTurnsOnly bool) *Replayer {
	return &Replayer{UserTurnsOnly: userTurnsOnly}
}

// BuildPriorContext returns the turns to seed the next agent invocation
// with, in strict append order.
func (r *Replayer) BuildPriorContext(turns []datatypes.Message) []datatypes.Message {
	if !r.UserTurnsOnly {
		prior := make([]datatypes.Message, len(turns))
		copy(prior, turns)
		return prior
	}

	prior := make([]datatypes.Message, 0, (len(turns)+1)/2)
	for _, turn := range turns {
		if turn.Role == datatypes.RoleUser {
			prior = append(prior, turn)
		}
	}
	return prior
}
