// Package store holds identity state: the identity map, the trust agreement
// map, and per-admin trust scores. Absent keys read as defined defaults (no
// identity, inactive agreement, zero score).
package store

import (
	"context"
	"sync"

	"propdesk/internal/identity/models"
	"propdesk/pkg/domain"
	"propdesk/pkg/platform/sentinel"
)

// InMemory keeps identity state in process. Reads take the shared lock;
// mutations take the exclusive lock so each store call is atomic.
type InMemory struct {
	mu         sync.RWMutex
	identities map[domain.AccountID]models.Identity
	agreements map[models.AgreementKey]models.TrustAgreement
	scores     map[domain.AccountID]uint64
}

func NewInMemory() *InMemory {
	return &InMemory{
		identities: make(map[domain.AccountID]models.Identity),
		agreements: make(map[models.AgreementKey]models.TrustAgreement),
		scores:     make(map[domain.AccountID]uint64),
	}
}

// CreateIdentity inserts a fresh identity. Returns ErrConflict if the account
// has registered before; registration is strictly once per account.
func (s *InMemory) CreateIdentity(_ context.Context, identity models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.identities[identity.Account]; exists {
		return sentinel.ErrConflict
	}
	s.identities[identity.Account] = identity
	return nil
}

// FindIdentity returns the identity for an account, or ErrNotFound.
func (s *InMemory) FindIdentity(_ context.Context, account domain.AccountID) (models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if identity, ok := s.identities[account]; ok {
		return identity, nil
	}
	return models.Identity{}, sentinel.ErrNotFound
}

// SaveAgreement stores a trust agreement, overwriting any prior record for
// the same (user, admin) pair.
func (s *InMemory) SaveAgreement(_ context.Context, agreement models.TrustAgreement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agreements[agreement.Key()] = agreement
	return nil
}

// AgreementActive reads the active flag for a (user, admin) pair. Pairs never
// agreed read as inactive.
func (s *InMemory) AgreementActive(_ context.Context, user, admin domain.AccountID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	agreement, ok := s.agreements[models.AgreementKey{User: user, Admin: admin}]
	return ok && agreement.Active, nil
}

// TrustScore reads an admin's accumulated score. Unknown admins read as zero.
func (s *InMemory) TrustScore(_ context.Context, admin domain.AccountID) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scores[admin], nil
}

// AddTrustScore adds delta to an admin's score and returns the new total.
// Scores only grow; there is no upper bound at this layer.
func (s *InMemory) AddTrustScore(_ context.Context, admin domain.AccountID, delta uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[admin] += delta
	return s.scores[admin], nil
}
