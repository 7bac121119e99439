package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propdesk/pkg/domain"
	dErrors "propdesk/pkg/domain-errors"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("test-signing-key", "propdesk-test")
	account := domain.AccountIDFromUint64(42)

	token, err := svc.GenerateToken(account, time.Hour)
	require.NoError(t, err)

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, account, got)
}

func TestValidateTokenRejections(t *testing.T) {
	svc := NewService("test-signing-key", "propdesk-test")
	account := domain.AccountIDFromUint64(42)

	t.Run("expired token", func(t *testing.T) {
		token, err := svc.GenerateToken(account, -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := NewService("other-key", "propdesk-test")
		token, err := other.GenerateToken(account, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	t.Run("zero account claim", func(t *testing.T) {
		token, err := svc.GenerateToken(domain.AccountID{}, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})
}
