// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package auth resolves caller credentials to logical user identities.
//
// The gateway authenticates every request with an opaque API key presented
// in the x-api-key header. Keys are loaded once at startup from the
// API_KEYS environment variable as a comma-separated list of key:user
// pairs. A bare key (no colon) maps to itself, so existing single-tenant
// deployments keep working. Several keys may map to the same user; those
// callers share one session namespace.
//
// The registry is immutable after construction. There is deliberately no
// runtime mutation API: key rotation is a restart, not an endpoint.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// ErrUnauthorized is returned by Resolve for a missing or unrecognized
// API key. Both cases wrap the same sentinel so callers cannot tell an
// unknown key apart from an absent one by error identity.
var ErrUnauthorized = errors.New("unauthorized")

// Development fallback registered when API_KEYS is unset or empty.
const (
	DefaultAPIKey = "default-api-key"
	DefaultUserID = "default-user"
)

// KeyRegistry is a read-only credential-to-identity map.
// Safe for concurrent use: the map is never written after construction.
type KeyRegistry struct {
	keys map[string]string
}

// NewKeyRegistry builds a registry from a comma-separated key:user list.
//
// Each entry is split on the first colon; both halves are trimmed. Entries
// without a colon register the key as its own user id. Blank entries are
// skipped. An empty config registers the single development default pair.
//
// Example:
//
//	NewKeyRegistry("k1:alice, k2:alice, legacy-key")
//	// k1 -> alice, k2 -> alice, legacy-key -> legacy-key
func NewKeyRegistry(config string) *KeyRegistry {
	keys := make(map[string]string)

	for _, pair := range strings.Split(config, ",") {
		if key, userID, found := strings.Cut(pair, ":"); found {
			key = strings.TrimSpace(key)
			userID = strings.TrimSpace(userID)
			if key != "" {
				keys[key] = userID
			}
		} else if key := strings.TrimSpace(pair); key != "" {
			// Backward compatibility: a bare key is its own user id.
			keys[key] = key
		}
	}

	if len(keys) == 0 {
		slog.Warn("No API keys configured, registering development default",
			"key", DefaultAPIKey, "userId", DefaultUserID)
		keys[DefaultAPIKey] = DefaultUserID
	}

	return &KeyRegistry{keys: keys}
}

// NewKeyRegistryFromEnv builds a registry from the API_KEYS environment
// variable.
func NewKeyRegistryFromEnv() *KeyRegistry {
	registry := NewKeyRegistry(os.Getenv("API_KEYS"))
	slog.Info("Loaded API key registry", "keys", registry.Len())
	return registry
}

// Resolve maps an API key to its user identity.
//
// Returns an error wrapping ErrUnauthorized when the key is empty or not
// registered. The two failures differ only in message text, never in
// error identity or shape.
func (r *KeyRegistry) Resolve(apiKey string) (string, error) {
	if apiKey == "" {
		return "", fmt.Errorf("%w: API key is missing", ErrUnauthorized)
	}
	userID, ok := r.keys[apiKey]
	if !ok {
		return "", fmt.Errorf("%w: invalid API key", ErrUnauthorized)
	}
	return userID, nil
}

// Len reports the number of registered keys.
func (r *KeyRegistry) Len() int {
	return len(r.keys)
}
