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
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/AleutianGateway/services/gateway/datatypes"
	"github.com/AleutianAI/AleutianGateway/services/llm"
	"github.com/AleutianAI/AleutianGateway/services/retrieval"
)

var agentTracer = otel.Tracer("aleutian.agent")

// defaultSystemPrompt frames the assistant and how to treat retrieved
// excerpts. Overridable per deployment via SYSTEM_ROLE_PROMPT_PERSONA.
const defaultSystemPrompt = "You are a helpful assistant. Ground your answers " +
	"in the retrieved documents when they are relevant to the question."

// RetrievalAgent is an Agent that augments every generation with a
// knowledge-base lookup: it retrieves the documents semantically closest
// to the incoming message, folds them into the system context, replays
// the prior turns, and asks the LLM for the next reply.
type RetrievalAgent struct {
	llmClient    llm.LLMClient
	retriever    retrieval.Retriever
	systemPrompt string
	params       llm.GenerationParams
}

// NewRetrievalAgent wires an agent from its two capabilities. Pass
// retrieval.NopRetriever{} to run without a knowledge base. An empty
// systemPrompt selects the built-in default.
func NewRetrievalAgent(llmClient llm.LLMClient, retriever retrieval.Retriever,
	systemPrompt string, params llm.GenerationParams) *RetrievalAgent {

	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	return &RetrievalAgent{
		llmClient:    llmClient,
		retriever:    retriever,
		systemPrompt: systemPrompt,
		params:       params,
	}
}

// Run implements the Agent interface.
//
// A retrieval failure fails the whole invocation: returning an answer
// while silently dropping the knowledge base would fabricate confidence
// the caller did not ask for.
func (a *RetrievalAgent) Run(ctx context.Context, prior []datatypes.Message,
	message string) (string, error) {

	ctx, span := agentTracer.Start(ctx, "RetrievalAgent.Run")
	defer span.End()
	span.SetAttributes(attribute.Int("agent.prior_turns", len(prior)))

	docs, err := a.retriever.Search(ctx, message)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "retrieval failed")
		return "", fmt.Errorf("retrieval failed: %w", err)
	}
	span.SetAttributes(attribute.Int("agent.documents", len(docs)))

	messages := a.buildTranscript(prior, message, docs)
	reply, err := a.llmClient.Chat(ctx, messages, a.params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return "", fmt.Errorf("generation failed: %w", err)
	}

	slog.Debug("Agent invocation complete",
		"priorTurns", len(prior),
		"documents", len(docs),
		"replyLength", len(reply),
	)
	return reply, nil
}

// buildTranscript assembles the LLM chat transcript: system prompt with
// retrieved context, the replayed prior turns in order, then the new user
// message.
func (a *RetrievalAgent) buildTranscript(prior []datatypes.Message, message string,
	docs []retrieval.Document) []datatypes.Message {

	system := a.systemPrompt
	if len(docs) > 0 {
		system += "\n" + retrieval.FormatDocuments(docs)
	}

	messages := make([]datatypes.Message, 0, len(prior)+2)
	messages = append(messages, datatypes.Message{
		Role:    datatypes.RoleSystem,
		Content: system,
	})
	messages = append(messages, prior...)
	messages = append(messages, datatypes.Message{
		Role:    datatypes.RoleUser,
		Content: message,
	})
	return messages
}

var _ Agent = (*RetrievalAgent)(nil)
