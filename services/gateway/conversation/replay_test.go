// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianGateway/services/gateway/datatypes"
)

func transcript() []datatypes.Message {
	return []datatypes.Message{
		{Role: datatypes.RoleUser, Content: "q1"},
		{Role: datatypes.RoleAssistant, Content: "a1"},
		{Role: datatypes.RoleUser, Content: "q2"},
		{Role: datatypes.RoleAssistant, Content: "a2"},
	}
}

func TestBuildPriorContext_FullTranscriptPreservesOrder(t *testing.T) {
	replayer := NewReplayer(false)

	prior := replayer.BuildPriorContext(transcript())

	assert.Equal(t, transcript(), prior)
}

func TestBuildPriorContext_DoesNotAliasInput(t *testing.T) {
	replayer := NewReplayer(false)
	turns := transcript()

	prior := replayer.BuildPriorContext(turns)
	prior[0].Content = "mutated"

	assert.Equal(t, "q1", turns[0].Content)
}

// The legacy gateway seeded the agent with only the caller's prior
// messages, dropping assistant replies. That projection is preserved
// behind UserTurnsOnly; this test pins both behaviors side by side so the
// difference stays visible.
func TestBuildPriorContext_UserTurnsOnlyDropsAssistantTurns(t *testing.T) {
	full := NewReplayer(false).BuildPriorContext(transcript())
	userOnly := NewReplayer(true).BuildPriorContext(transcript())

	require.Len(t, full, 4)
	require.Len(t, userOnly, 2)
	assert.Equal(t, "q1", userOnly[0].Content)
	assert.Equal(t, "q2", userOnly[1].Content)
	for _, turn := range userOnly {
		assert.Equal(t, datatypes.RoleUser, turn.Role)
	}
}

func TestBuildPriorContext_EmptyLog(t *testing.T) {
	for _, userOnly := range []bool{false, true} {
		prior := NewReplayer(userOnly).BuildPriorContext(nil)
		assert.Empty(t, prior)
	}
}
