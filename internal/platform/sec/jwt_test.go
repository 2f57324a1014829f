// Copyright (c) 2026 Ultimate Library. All rights reserved.

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabinnerself/ultimate-library/internal/platform/sec"
)

/*
TestTokenService_RoundTrip issues a token and verifies the subject survives.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := sec.NewTokenService("test-secret-key", "ultimate-library", 30*time.Minute)

	token, err := service.Issue("ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", subject)
}

/*
TestTokenService_Verify_Failures covers signature, expiry, and shape failures.
*/
func TestTokenService_Verify_Failures(t *testing.T) {
	service := sec.NewTokenService("test-secret-key", "ultimate-library", 30*time.Minute)

	t.Run("wrong_key", func(t *testing.T) {
		other := sec.NewTokenService("a-different-key", "ultimate-library", 30*time.Minute)
		token, err := other.Issue("ada@example.com")
		require.NoError(t, err)

		_, err = service.Verify(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := service.IssueWithTTL("ada@example.com", -1*time.Minute)
		require.NoError(t, err)

		_, err = service.Verify(token)
		assert.Error(t, err)
	})

	t.Run("garbage_input", func(t *testing.T) {
		_, err := service.Verify("not.a.jwt")
		assert.Error(t, err)
	})

	t.Run("empty_subject", func(t *testing.T) {
		token, err := service.Issue("")
		require.NoError(t, err)

		_, err = service.Verify(token)
		assert.Error(t, err)
	})
}
