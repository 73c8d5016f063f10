// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"sync"

	"github.com/AleutianAI/AleutianGateway/services/gateway/datatypes"
)

// Session is one ongoing conversation: an identity-owned, append-only log
// of user/assistant turn pairs. The log always has even length and
// alternates roles starting with RoleUser.
//
// Two locks keep the invariants cheap to hold:
//
//   - mu guards the turn slice for reads and pair appends. Readers get a
//     consistent snapshot; a half-appended pair is never observable.
//   - sendMu serializes whole message exchanges, so at most one agent
//     invocation is in flight per session and completed pairs land in
//     completion order. It is scoped to this single session; exchanges on
//     other sessions proceed independently.
type Session struct {
	id    string
	owner string

	mu    sync.RWMutex
	turns []datatypes.Message

	sendMu sync.Mutex
}

// ID returns the session's generated identifier.
func (s *Session) ID() string {
	return s.id
}

// Owner returns the user id that owns this session.
func (s *Session) Owner() string {
	return s.owner
}

// History returns a snapshot copy of the turn log in append order.
// The caller may keep or mutate the returned slice freely.
func (s *Session) History() []datatypes.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make([]datatypes.Message, len(s.turns))
	copy(history, s.turns)
	return history
}

// TurnCount returns the current length of the turn log.
func (s *Session) TurnCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// InvokeFunc runs one agent invocation. It receives a snapshot of the
// prior turns and returns the assistant's reply text.
type InvokeFunc func(prior []datatypes.Message) (string, error)

// Exchange performs one complete message exchange against this session:
// snapshot the prior turns, run the invocation, and on success append the
// (userContent, reply) pair. The append is all-or-nothing: a failed
// invocation leaves the log untouched.
//
// Exchanges on the same session are serialized, so invoke sees every pair
// from previously completed exchanges and pairs are appended in completion
// order. invoke is typically a long-latency LLM call; no store-wide lock
// is held while it runs.
func (s *Session) Exchange(userContent string, invoke InvokeFunc) (string, error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	reply, err := invoke(s.History())
	if err != nil {
		return "", err
	}

	s.appendPair(userContent, reply)
	return reply, nil
}

// appendPair appends the user turn and its assistant turn as one atomic
// write. Callers must have completed the invocation that produced reply.
func (s *Session) appendPair(userContent, assistantContent string) {
	s.mu.Lock()
	s.turns = append(s.turns,
		datatypes.Message{Role: datatypes.RoleUser, Content: userContent},
		datatypes.Message{Role: datatypes.RoleAssistant, Content: assistantContent},
	)
	s.mu.Unlock()
}
