// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package services holds the gateway's request orchestration, separated
// from the HTTP handlers. The GatewayService resolves each request to a
// session, replays the session's history into a fresh agent invocation,
// and appends the resulting turn pair — nothing transport-level leaks in,
// and no business rule leaks out to the handlers.
package services

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/AleutianGateway/services/agent"
	"github.com/AleutianAI/AleutianGateway/services/gateway/conversation"
	"github.com/AleutianAI/AleutianGateway/services/gateway/datatypes"
	"github.com/AleutianAI/AleutianGateway/services/gateway/observability"
	"github.com/AleutianAI/AleutianGateway/services/gateway/store"
)

var gatewayTracer = otel.Tracer("aleutian.gateway.services")

// GatewayService orchestrates one conversational request end to end.
// Identity resolution happens in the auth middleware; every method here
// takes the already-resolved user id.
//
// Safe for concurrent use: per-session serialization lives in the store,
// and the service itself holds no mutable state.
type GatewayService struct {
	store    *store.Store
	agent    agent.Agent
	replayer *conversation.Replayer
	metrics  *observability.Metrics
}

// NewGatewayService wires a service from its collaborators. metrics may
// be nil (instrumentation becomes a no-op).
func NewGatewayService(sessionStore *store.Store, runner agent.Agent,
	replayer *conversation.Replayer, metrics *observability.Metrics) *GatewayService {

	return &GatewayService{
		store:    sessionStore,
		agent:    runner,
		replayer: replayer,
		metrics:  metrics,
	}
}

// CreateSession starts a new empty conversation for the user and returns
// its id.
func (g *GatewayService) CreateSession(ctx context.Context, userID string) string {
	_, span := gatewayTracer.Start(ctx, "GatewayService.CreateSession")
	defer span.End()

	sessionID := g.store.CreateSession(userID)
	g.metrics.SessionCreated()
	span.SetAttributes(attribute.String("session.id", sessionID))
	return sessionID
}

// SendMessage runs one exchange against an existing session: replay the
// prior turns, invoke the agent with the new message, append the
// (message, reply) pair, and return the reply.
//
// Errors: store.ErrSessionNotFound when the session is absent for this
// user (or owned by another user — indistinguishable by design), or an
// *UpstreamError when the agent invocation fails. A failed invocation
// leaves the turn log exactly as it was.
func (g *GatewayService) SendMessage(ctx context.Context, userID, sessionID,
	message string) (string, error) {

	ctx, span := gatewayTracer.Start(ctx, "GatewayService.SendMessage")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	session, err := g.store.Get(userID, sessionID)
	if err != nil {
		span.SetStatus(codes.Error, "session not found")
		return "", err
	}

	reply, err := session.Exchange(message, func(prior []datatypes.Message) (string, error) {
		replayed := g.replayer.BuildPriorContext(prior)
		span.SetAttributes(attribute.Int("replay.turns", len(replayed)))

		start := time.Now()
		text, runErr := g.agent.Run(ctx, replayed, message)
		g.metrics.ObserveUpstream(time.Since(start), runErr)
		if runErr != nil {
			return "", &UpstreamError{Err: runErr}
		}
		return text, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "agent invocation failed")
		slog.Error("Agent invocation failed",
			"sessionId", sessionID, "userId", userID, "error", err)
		return "", err
	}

	g.metrics.TurnPairAppended()
	slog.Info("Completed message exchange",
		"sessionId", sessionID,
		"userId", userID,
		"turns", session.TurnCount(),
	)
	return reply, nil
}

// GetHistory returns the session's turn log in exact append order.
func (g *GatewayService) GetHistory(ctx context.Context, userID,
	sessionID string) ([]datatypes.Message, error) {

	_, span := gatewayTracer.Start(ctx, "GatewayService.GetHistory")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	session, err := g.store.Get(userID, sessionID)
	if err != nil {
		span.SetStatus(codes.Error, "session not found")
		return nil, err
	}
	return session.History(), nil
}

// ListSessions returns the ids of the user's sessions; empty, not an
// error, for a user that has never created one.
func (g *GatewayService) ListSessions(ctx context.Context, userID string) []string {
	_, span := gatewayTracer.Start(ctx, "GatewayService.ListSessions")
	defer span.End()

	return g.store.ListSessions(userID)
}
