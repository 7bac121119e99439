package models

import (
	"time"

	"propdesk/internal/governance/config"
	"propdesk/pkg/domain"
)

// VoteType selects the tally a vote's weight lands in. Zero is positive;
// every other value counts as negative.
type VoteType uint8

const VotePositive VoteType = 0

// IsPositive reports whether the vote adds to the positive tally.
func (v VoteType) IsPositive() bool {
	return v == VotePositive
}

// VoteTally accumulates weighted votes per admin. Weights are caller-supplied
// and unbounded at this layer.
type VoteTally struct {
	Admin    domain.AccountID `json:"admin"`
	Positive uint64           `json:"positive"`
	Negative uint64           `json:"negative"`
}

// AdminStatus is the three-tier reputation classification. Admins never
// evaluated read as Good.
type AdminStatus uint8

const (
	StatusGood AdminStatus = iota
	StatusWarning
	StatusBanned
)

// MarshalText renders the status as its lowercase name in JSON output.
func (s AdminStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s AdminStatus) String() string {
	switch s {
	case StatusGood:
		return "good"
	case StatusWarning:
		return "warning"
	case StatusBanned:
		return "banned"
	default:
		return "unknown"
	}
}

// StatusFromTally recomputes the status from the current negative tally. The
// function is pure and total: every validation call derives the tier fresh,
// so an admin can move in either direction. Positive weight beyond the
// minimum-votes gate does not influence the tier.
func StatusFromTally(tally VoteTally, cfg config.Thresholds) AdminStatus {
	switch {
	case tally.Negative >= cfg.BanThreshold:
		return StatusBanned
	case tally.Negative >= cfg.WarningThreshold:
		return StatusWarning
	default:
		return StatusGood
	}
}

// Pool is a custodial balance accepting donations and disbursing allocations.
//
// Invariants:
//   - TotalAmount never goes negative; allocation checks balance first
//   - Donations require the active flag; missing pools read as inactive
type Pool struct {
	ID          domain.PoolID     `json:"id"`
	TotalAmount domain.Amount     `json:"total_amount"`
	Active      bool              `json:"active"`
	Params      domain.Commitment `json:"params"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Allocation is the latest grant recorded for a beginner. Each new allocation
// overwrites the previous one rather than accumulating.
type Allocation struct {
	Beginner    domain.AccountID `json:"beginner"`
	PoolID      domain.PoolID    `json:"pool_id"`
	Amount      domain.Amount    `json:"amount"`
	AllocatedAt time.Time        `json:"allocated_at"`
}

// VoterKey identifies a (voter, admin) pair in the cooldown map.
type VoterKey struct {
	Voter domain.AccountID
	Admin domain.AccountID
}
