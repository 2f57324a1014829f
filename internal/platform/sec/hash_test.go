// Copyright (c) 2026 Ultimate Library. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabinnerself/ultimate-library/internal/platform/sec"
)

/*
TestHashPassword verifies hash creation and its salting behavior.
*/
func TestHashPassword(t *testing.T) {
	t.Run("rejects_empty_password", func(t *testing.T) {
		_, err := sec.HashPassword("")
		require.ErrorIs(t, err, sec.ErrEmptyPassword)
	})

	t.Run("produces_verifiable_hash", func(t *testing.T) {
		hash, err := sec.HashPassword("Secret123")
		require.NoError(t, err)
		assert.NotEqual(t, "Secret123", hash)
		assert.True(t, sec.CheckPasswordHash("Secret123", hash))
	})

	t.Run("salts_each_hash", func(t *testing.T) {
		first, err := sec.HashPassword("Secret123")
		require.NoError(t, err)
		second, err := sec.HashPassword("Secret123")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.True(t, sec.CheckPasswordHash("Secret123", first))
		assert.True(t, sec.CheckPasswordHash("Secret123", second))
	})
}

/*
TestCheckPasswordHash covers mismatches and malformed digests.
*/
func TestCheckPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("Secret123")
	require.NoError(t, err)

	assert.False(t, sec.CheckPasswordHash("wrong-password", hash))
	assert.False(t, sec.CheckPasswordHash("Secret123", "not-a-bcrypt-digest"))
	assert.False(t, sec.CheckPasswordHash("", hash))
}
