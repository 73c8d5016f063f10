// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianGateway/services/gateway/datatypes"
	"github.com/AleutianAI/AleutianGateway/services/llm"
	"github.com/AleutianAI/AleutianGateway/services/retrieval"
)

// stubLLM records the transcript it was asked to complete.
type stubLLM struct {
	err      error
	reply    string
	lastSent []datatypes.Message
}

func (s *stubLLM) Chat(_ context.Context, messages []datatypes.Message,
	_ llm.GenerationParams) (string, error) {

	s.lastSent = messages
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type stubRetriever struct {
	err  error
	docs []retrieval.Document
}

func (s *stubRetriever) Search(_ context.Context, _ string) ([]retrieval.Document, error) {
	return s.docs, s.err
}

func TestRun_TranscriptOrder(t *testing.T) {
	mockLLM := &stubLLM{reply: "answer"}
	a := NewRetrievalAgent(mockLLM, retrieval.NopRetriever{}, "be terse", llm.GenerationParams{})
	prior := []datatypes.Message{
		{Role: datatypes.RoleUser, Content: "q1"},
		{Role: datatypes.RoleAssistant, Content: "a1"},
	}

	reply, err := a.Run(context.Background(), prior, "q2")
	require.NoError(t, err)
	assert.Equal(t, "answer", reply)

	// System prompt first, prior turns in order, new message last.
	require.Len(t, mockLLM.lastSent, 4)
	assert.Equal(t, datatypes.Message{Role: datatypes.RoleSystem, Content: "be terse"}, mockLLM.lastSent[0])
	assert.Equal(t, prior[0], mockLLM.lastSent[1])
	assert.Equal(t, prior[1], mockLLM.lastSent[2])
	assert.Equal(t, datatypes.Message{Role: datatypes.RoleUser, Content: "q2"}, mockLLM.lastSent[3])
}

func TestRun_FoldsDocumentsIntoSystemContext(t *testing.T) {
	mockLLM := &stubLLM{reply: "grounded answer"}
	retriever := &stubRetriever{docs: []retrieval.Document{
		{Content: "excerpt one\n", Source: "doc-a"},
		{Content: "excerpt two\n", Source: "doc-b"},
	}}
	a := NewRetrievalAgent(mockLLM, retriever, "be terse", llm.GenerationParams{})

	_, err := a.Run(context.Background(), nil, "question")
	require.NoError(t, err)

	require.NotEmpty(t, mockLLM.lastSent)
	system := mockLLM.lastSent[0]
	assert.Equal(t, datatypes.RoleSystem, system.Role)
	assert.Contains(t, system.Content, "be terse")
	assert.Contains(t, system.Content, "Retrieved documents:")
	assert.Contains(t, system.Content, "excerpt one")
	assert.Contains(t, system.Content, "excerpt two")

	// No documents: the system prompt stays bare.
	bare := &stubLLM{reply: "ok"}
	a = NewRetrievalAgent(bare, retrieval.NopRetriever{}, "be terse", llm.GenerationParams{})
	_, err = a.Run(context.Background(), nil, "question")
	require.NoError(t, err)
	assert.Equal(t, "be terse", bare.lastSent[0].Content)
}

func TestRun_EmptySystemPromptUsesDefault(t *testing.T) {
	mockLLM := &stubLLM{reply: "ok"}
	a := NewRetrievalAgent(mockLLM, retrieval.NopRetriever{}, "", llm.GenerationParams{})

	_, err := a.Run(context.Background(), nil, "question")
	require.NoError(t, err)

	assert.Equal(t, defaultSystemPrompt, mockLLM.lastSent[0].Content)
}

func TestRun_RetrievalFailureFailsInvocation(t *testing.T) {
	mockLLM := &stubLLM{reply: "never"}
	retriever := &stubRetriever{err: errors.New("vector db down")}
	a := NewRetrievalAgent(mockLLM, retriever, "", llm.GenerationParams{})

	_, err := a.Run(context.Background(), nil, "question")

	require.Error(t, err)
	assert.ErrorContains(t, err, "retrieval failed")
	assert.Nil(t, mockLLM.lastSent, "LLM must not be called after a retrieval failure")
}

func TestRun_GenerationFailurePropagates(t *testing.T) {
	mockLLM := &stubLLM{err: errors.New("model unavailable")}
	a := NewRetrievalAgent(mockLLM, retrieval.NopRetriever{}, "", llm.GenerationParams{})

	_, err := a.Run(context.Background(), nil, "question")

	require.Error(t, err)
	assert.ErrorContains(t, err, "generation failed")
}
