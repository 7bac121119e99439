package domainerrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodedErrors(t *testing.T) {
	t.Run("New carries its code", func(t *testing.T) {
		err := New(CodeTooSoon, "vote cooldown active")
		assert.True(t, Is(err, CodeTooSoon))
		assert.False(t, Is(err, CodeUnauthorized))
		assert.Equal(t, CodeTooSoon, CodeOf(err))
	})

	t.Run("Wrap keeps the cause reachable", func(t *testing.T) {
		cause := errors.New("store closed")
		err := Wrap(cause, CodeInternal, "failed to persist vote")
		assert.True(t, Is(err, CodeInternal))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Is sees codes anywhere in the chain", func(t *testing.T) {
		leaf := New(CodeAlreadyRegistered, "account exists")
		err := Wrap(leaf, CodeIdentityRegistrationFailed, "identity registration failed")
		assert.True(t, Is(err, CodeIdentityRegistrationFailed))
		assert.True(t, Is(err, CodeAlreadyRegistered))
		assert.Equal(t, CodeIdentityRegistrationFailed, CodeOf(err), "outermost code wins for transport")
	})

	t.Run("uncoded errors default to internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeInvalidProof:       http.StatusBadRequest,
		CodeNotOwner:           http.StatusForbidden,
		CodeAdminNotAuthorized: http.StatusForbidden,
		CodeAlreadyRegistered:  http.StatusConflict,
		CodeInsufficientFunds:  http.StatusConflict,
		CodeTooSoon:            http.StatusTooManyRequests,
		CodeInternal:           http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}
