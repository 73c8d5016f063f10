// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store holds the in-memory session state for the gateway.
//
// The Store maps user identities to their sessions; each Session owns an
// append-only turn log. All access is identity-scoped: a session is only
// reachable through its owning user id, and a lookup with the wrong owner
// fails exactly like a lookup for a session that never existed.
//
// Concurrency model: the Store's two-level map is guarded by one RWMutex
// that is held only for map operations, never across an LLM call. Each
// Session carries its own locks so appends to distinct sessions never
// contend, and concurrent message exchanges on the same session are
// serialized (see Session.Exchange).
//
// Nothing here is durable. State lives for the process lifetime only;
// persistence across restarts is an explicit non-goal.
package store

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a session id is unknown for the
// given user, including the case where the session exists but belongs to
// another user. The two cases are deliberately indistinguishable so a
// caller can never probe for sessions it does not own.
var ErrSessionNotFound = errors.New("session not found for this user")

// Store is the in-memory registry of all sessions, keyed by owning user.
type Store struct {
	mu    sync.RWMutex
	users map[string]map[string]*Session
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users: make(map[string]map[string]*Session),
	}
}

// CreateSession registers a new empty session for userID and returns its
// generated id. The user's session set is materialized lazily on first
// use. CreateSession cannot fail.
func (s *Store) CreateSession(userID string) string {
	sessionID := uuid.NewString()

	s.mu.Lock()
	sessions, ok := s.users[userID]
	if !ok {
		sessions = make(map[string]*Session)
		s.users[userID] = sessions
	}
	sessions[sessionID] = &Session{id: sessionID, owner: userID}
	s.mu.Unlock()

	slog.Info("Created session", "sessionId", sessionID, "userId", userID)
	return sessionID
}

// Get returns the session owned by userID with the given id, or
// ErrSessionNotFound if the user has no such session.
func (s *Store) Get(userID, sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions, ok := s.users[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	session, ok := sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// ListSessions returns the ids of every session owned by userID. A user
// that has never created a session gets an empty slice, not an error.
func (s *Store) ListSessions(userID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.users[userID]
	ids := make([]string, 0, len(sessions))
	for id := range sessions {
		ids = append(ids, id)
	}
	return ids
}

// AppendTurnPair atomically appends a user turn followed by the matching
// assistant turn to the session's log. Ownership rules are the same as
// Get: a wrong or unknown session id yields ErrSessionNotFound.
func (s *Store) AppendTurnPair(userID, sessionID, userContent, assistantContent string) error {
	session, err := s.Get(userID, sessionID)
	if err != nil {
		return err
	}
	session.appendPair(userContent, assistantContent)
	return nil
}
