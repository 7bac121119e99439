// Package domain holds the identifier and value types shared by every
// component. Account identifiers are opaque 256-bit values: the platform only
// ever compares them for equality and uses them as map keys.
package domain

import (
	"encoding/hex"
	"fmt"

	"github.com/holiman/uint256"
)

// AccountID identifies a participant (user, admin, beginner, or the platform
// owner). The surrounding environment authenticates callers; inside the core
// an AccountID is never forged or derived, only carried.
type AccountID struct {
	n uint256.Int
}

// AccountIDFromHex parses a 0x-prefixed hex account identifier.
func AccountIDFromHex(s string) (AccountID, error) {
	n, err := uint256.FromHex(s)
	if err != nil {
		return AccountID{}, fmt.Errorf("parse account id: %w", err)
	}
	return AccountID{n: *n}, nil
}

// AccountIDFromBytes builds an AccountID from big-endian bytes (at most 32).
func AccountIDFromBytes(b []byte) AccountID {
	var a AccountID
	a.n.SetBytes(b)
	return a
}

// AccountIDFromUint64 is a convenience constructor used heavily in tests.
func AccountIDFromUint64(v uint64) AccountID {
	var a AccountID
	a.n.SetUint64(v)
	return a
}

// IsZero reports whether the identifier is the zero account. The zero account
// never belongs to a real participant and is used as the absent-value default.
func (a AccountID) IsZero() bool {
	return a.n.IsZero()
}

// Hex returns the canonical 0x-prefixed representation.
func (a AccountID) Hex() string {
	return a.n.Hex()
}

func (a AccountID) String() string {
	return a.n.Hex()
}

// Bytes32 returns the fixed-width big-endian form, e.g. for log records.
func (a AccountID) Bytes32() [32]byte {
	return a.n.Bytes32()
}

// MarshalText renders the id as 0x-prefixed hex. JSON encoding goes through
// this, so account ids appear as hex strings on the wire.
func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.n.Hex()), nil
}

// UnmarshalText parses the 0x-prefixed hex form.
func (a *AccountID) UnmarshalText(b []byte) error {
	parsed, err := AccountIDFromHex(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// PoolID identifies a donation pool. Pool ids are assigned sequentially by
// Governance starting at 1; zero means "no such pool".
type PoolID uint64

func (p PoolID) String() string {
	return fmt.Sprintf("pool-%d", uint64(p))
}

// Amount is a non-negative quantity of pooled capital. All arithmetic on
// Amount must check for underflow before subtracting.
type Amount uint64

// TradeSeq is the platform-wide trade sequence number. The sequence assigned
// to a trade equals the total-trades counter at the time of insertion.
type TradeSeq uint64

// Hash32 renders a 32-byte value as 0x-prefixed hex, the display form for
// commitments throughout the API.
func Hash32(b [32]byte) string {
	return "0x" + hex.EncodeToString(b[:])
}
