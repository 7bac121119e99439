package domain

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Commitment is an opaque 32-byte digest of material the platform never sees
// in the clear: credentials, agreement terms, pool parameters. The core stores
// and compares commitments; it never inverts them.
type Commitment [32]byte

// NewCommitment digests arbitrary input into a commitment.
func NewCommitment(data []byte) Commitment {
	return sha3.Sum256(data)
}

// IsZero reports whether the commitment is unset.
func (c Commitment) IsZero() bool {
	return c == Commitment{}
}

func (c Commitment) String() string {
	return Hash32(c)
}

// MarshalText renders the commitment as 0x-prefixed hex for JSON output.
func (c Commitment) MarshalText() ([]byte, error) {
	return []byte(Hash32(c)), nil
}

// UnmarshalText parses the 0x-prefixed hex form.
func (c *Commitment) UnmarshalText(b []byte) error {
	s := string(b)
	if len(s) != 2+2*len(c) || s[:2] != "0x" {
		return fmt.Errorf("parse commitment: want 0x-prefixed 32-byte hex, got %q", s)
	}
	decoded, err := hex.DecodeString(s[2:])
	if err != nil {
		return fmt.Errorf("parse commitment: %w", err)
	}
	copy(c[:], decoded)
	return nil
}
