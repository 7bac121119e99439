package verifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"propdesk/pkg/domain"
)

func TestStubNonZeroRule(t *testing.T) {
	ctx := context.Background()
	stub := Stub{}

	t.Run("accepts non-zero payloads", func(t *testing.T) {
		ok, err := stub.VerifyCredentialProof(ctx, []byte("creds"), []byte{1})
		assert.NoError(t, err)
		assert.True(t, ok)

		ok, err = stub.VerifyExternalData(ctx, []byte{0, 0, 9})
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects empty and all-zero payloads", func(t *testing.T) {
		ok, err := stub.VerifySignature(ctx, domain.AccountIDFromUint64(1), domain.AccountIDFromUint64(2), []byte("terms"), nil)
		assert.NoError(t, err)
		assert.False(t, ok)

		ok, err = stub.VerifyScoreUpdate(ctx, domain.AccountIDFromUint64(1), 10, []byte{0, 0, 0})
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}
