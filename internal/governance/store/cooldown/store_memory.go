// Package cooldown tracks the last vote timestamp per (voter, admin) pair.
// The in-memory store is the default; the Redis store survives restarts in
// multi-instance deployments.
package cooldown

import (
	"context"
	"sync"
	"time"

	"propdesk/internal/governance/models"
	"propdesk/pkg/domain"
)

// InMemoryStore keeps last-vote timestamps in process.
type InMemoryStore struct {
	mu        sync.RWMutex
	lastVotes map[models.VoterKey]time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{lastVotes: make(map[models.VoterKey]time.Time)}
}

// LastVote returns the last recorded vote time for the pair, and whether one
// exists.
func (s *InMemoryStore) LastVote(_ context.Context, voter, admin domain.AccountID) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.lastVotes[models.VoterKey{Voter: voter, Admin: admin}]
	return t, ok, nil
}

// SetLastVote records a vote time for the pair.
func (s *InMemoryStore) SetLastVote(_ context.Context, voter, admin domain.AccountID, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastVotes[models.VoterKey{Voter: voter, Admin: admin}] = t
	return nil
}
