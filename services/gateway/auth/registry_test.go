// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeyRegistry_KeyUserPairs(t *testing.T) {
	registry := NewKeyRegistry("k1:alice,k2:bob")

	userID, err := registry.Resolve("k1")
	require.NoError(t, err)
	assert.Equal(t, "alice", userID)

	userID, err = registry.Resolve("k2")
	require.NoError(t, err)
	assert.Equal(t, "bob", userID)
}

func TestNewKeyRegistry_BareKeyMapsToItself(t *testing.T) {
	registry := NewKeyRegistry("legacy-key")

	userID, err := registry.Resolve("legacy-key")
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", userID)
}

func TestNewKeyRegistry_TrimsWhitespace(t *testing.T) {
	registry := NewKeyRegistry(" k1 : alice , k2:bob ")

	userID, err := registry.Resolve("k1")
	require.NoError(t, err)
	assert.Equal(t, "alice", userID)
}

func TestNewKeyRegistry_SplitsOnFirstColonOnly(t *testing.T) {
	registry := NewKeyRegistry("k1:user:with:colons")

	userID, err := registry.Resolve("k1")
	require.NoError(t, err)
	assert.Equal(t, "user:with:colons", userID)
}

func TestNewKeyRegistry_SharedIdentity(t *testing.T) {
	registry := NewKeyRegistry("k1:u1,k2:u1")

	u1, err := registry.Resolve("k1")
	require.NoError(t, err)
	u2, err := registry.Resolve("k2")
	require.NoError(t, err)
	assert.Equal(t, u1, u2)
}

func TestNewKeyRegistry_EmptyConfigRegistersDefault(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"empty string", ""},
		{"only separators", " , , "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewKeyRegistry(tt.config)

			userID, err := registry.Resolve(DefaultAPIKey)
			require.NoError(t, err)
			assert.Equal(t, DefaultUserID, userID)
			assert.Equal(t, 1, registry.Len())
		})
	}
}

func TestResolve_MissingAndUnknownAreBothUnauthorized(t *testing.T) {
	registry := NewKeyRegistry("k1:alice")

	_, missingErr := registry.Resolve("")
	_, unknownErr := registry.Resolve("nope")

	// Same sentinel for both; only the message text differs.
	assert.True(t, errors.Is(missingErr, ErrUnauthorized))
	assert.True(t, errors.Is(unknownErr, ErrUnauthorized))
	assert.NotEqual(t, missingErr.Error(), unknownErr.Error())
}
