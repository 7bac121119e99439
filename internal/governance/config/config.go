// Package config carries the governance thresholds. They are fixed
// configuration: loaded once at boot and never mutated by the running
// service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Thresholds drives the vote state machine.
type Thresholds struct {
	// MinVotesForAction gates status recomputation: below this positive
	// tally, validation refuses to derive any status.
	MinVotesForAction uint64
	// WarningThreshold is the negative tally at which an admin drops to
	// Warning.
	WarningThreshold uint64
	// BanThreshold is the negative tally at which an admin drops to Banned.
	BanThreshold uint64
	// VoteCooldown is the minimum spacing between two votes from the same
	// voter toward the same admin.
	VoteCooldown time.Duration
}

// Default returns the reference deployment thresholds.
func Default() Thresholds {
	return Thresholds{
		MinVotesForAction: 10,
		WarningThreshold:  20,
		BanThreshold:      50,
		VoteCooldown:      24 * time.Hour,
	}
}

// FromEnv builds thresholds from environment variables, falling back to the
// defaults for anything unset or malformed.
func FromEnv() Thresholds {
	cfg := Default()
	cfg.MinVotesForAction = envUint("PROPDESK_MIN_VOTES_FOR_ACTION", cfg.MinVotesForAction)
	cfg.WarningThreshold = envUint("PROPDESK_WARNING_THRESHOLD", cfg.WarningThreshold)
	cfg.BanThreshold = envUint("PROPDESK_BAN_THRESHOLD", cfg.BanThreshold)
	if raw := os.Getenv("PROPDESK_VOTE_COOLDOWN"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.VoteCooldown = d
		}
	}
	return cfg
}

func envUint(key string, fallback uint64) uint64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
