package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountIDFromHex(t *testing.T) {
	t.Run("round-trips canonical hex", func(t *testing.T) {
		a, err := AccountIDFromHex("0xdeadbeef")
		require.NoError(t, err)
		assert.Equal(t, "0xdeadbeef", a.Hex())
		assert.False(t, a.IsZero())
	})

	t.Run("rejects missing 0x prefix", func(t *testing.T) {
		_, err := AccountIDFromHex("deadbeef")
		assert.Error(t, err)
	})

	t.Run("zero value is the absent account", func(t *testing.T) {
		var a AccountID
		assert.True(t, a.IsZero())
	})
}

func TestAccountIDEquality(t *testing.T) {
	a := AccountIDFromUint64(7)
	b := AccountIDFromBytes([]byte{7})
	assert.Equal(t, a, b)

	// AccountID must be usable as a map key.
	m := map[AccountID]int{a: 1}
	assert.Equal(t, 1, m[b])
}

func TestJSONForms(t *testing.T) {
	t.Run("account ids marshal as hex strings", func(t *testing.T) {
		body, err := json.Marshal(AccountIDFromUint64(0xbeef))
		require.NoError(t, err)
		assert.Equal(t, `"0xbeef"`, string(body))

		var a AccountID
		require.NoError(t, json.Unmarshal(body, &a))
		assert.Equal(t, AccountIDFromUint64(0xbeef), a)
	})

	t.Run("commitments marshal as hex strings", func(t *testing.T) {
		c := NewCommitment([]byte("terms"))
		body, err := json.Marshal(c)
		require.NoError(t, err)

		var got Commitment
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, c, got)
	})
}

func TestCommitment(t *testing.T) {
	c1 := NewCommitment([]byte("terms v1"))
	c2 := NewCommitment([]byte("terms v1"))
	c3 := NewCommitment([]byte("terms v2"))

	assert.Equal(t, c1, c2)
	assert.NotEqual(t, c1, c3)
	assert.False(t, c1.IsZero())
	assert.True(t, Commitment{}.IsZero())
	assert.Len(t, c1.String(), 2+64)
}
