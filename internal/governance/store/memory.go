// Package store holds governance state: vote tallies, derived admin status,
// donation pools, and beginner allocations. Absent keys read as defined
// defaults (zero tally, Good status, inactive zero-balance pool).
package store

import (
	"context"
	"sync"

	"propdesk/internal/governance/models"
	"propdesk/pkg/domain"
	"propdesk/pkg/platform/sentinel"
)

// InMemory keeps governance state in process. Each method is atomic: checks
// and the mutation they guard run under one exclusive lock, so a failed call
// changes nothing.
type InMemory struct {
	mu          sync.RWMutex
	tallies     map[domain.AccountID]models.VoteTally
	statuses    map[domain.AccountID]models.AdminStatus
	pools       map[domain.PoolID]models.Pool
	nextPoolID  domain.PoolID
	allocations map[domain.AccountID]models.Allocation
}

func NewInMemory() *InMemory {
	return &InMemory{
		tallies:     make(map[domain.AccountID]models.VoteTally),
		statuses:    make(map[domain.AccountID]models.AdminStatus),
		pools:       make(map[domain.PoolID]models.Pool),
		nextPoolID:  1,
		allocations: make(map[domain.AccountID]models.Allocation),
	}
}

// AddVote adds weight to one side of an admin's tally and returns the new
// tally.
func (s *InMemory) AddVote(_ context.Context, admin domain.AccountID, positive bool, weight uint64) (models.VoteTally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tally := s.tallies[admin]
	tally.Admin = admin
	if positive {
		tally.Positive += weight
	} else {
		tally.Negative += weight
	}
	s.tallies[admin] = tally
	return tally, nil
}

// Tally reads an admin's tally. Admins never voted on read as zero.
func (s *InMemory) Tally(_ context.Context, admin domain.AccountID) (models.VoteTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tally := s.tallies[admin]
	tally.Admin = admin
	return tally, nil
}

// SetStatus persists a recomputed status.
func (s *InMemory) SetStatus(_ context.Context, admin domain.AccountID, status models.AdminStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[admin] = status
	return nil
}

// Status reads an admin's status. Admins never evaluated read as Good.
func (s *InMemory) Status(_ context.Context, admin domain.AccountID) (models.AdminStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statuses[admin], nil
}

// CreatePool stores a new active pool under the next sequential id, starting
// at 1.
func (s *InMemory) CreatePool(_ context.Context, pool models.Pool) (models.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pool.ID = s.nextPoolID
	s.nextPoolID++
	s.pools[pool.ID] = pool
	return pool, nil
}

// FindPool reads one pool, or ErrNotFound.
func (s *InMemory) FindPool(_ context.Context, id domain.PoolID) (models.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if pool, ok := s.pools[id]; ok {
		return pool, nil
	}
	return models.Pool{}, sentinel.ErrNotFound
}

// Donate increases a pool's balance. Missing pools read as inactive, so both
// cases return ErrInvalidState and leave nothing changed.
func (s *InMemory) Donate(_ context.Context, id domain.PoolID, amount domain.Amount) (models.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pool, ok := s.pools[id]
	if !ok || !pool.Active {
		return models.Pool{}, sentinel.ErrInvalidState
	}
	pool.TotalAmount += amount
	s.pools[id] = pool
	return pool, nil
}

// Allocate decreases a pool's balance and overwrites the beginner's recorded
// allocation, atomically. Missing pools read as inactive, so allocations
// against them fail the same way donations do.
func (s *InMemory) Allocate(_ context.Context, allocation models.Allocation) (models.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pool, ok := s.pools[allocation.PoolID]
	if !ok || !pool.Active {
		return models.Pool{}, sentinel.ErrInvalidState
	}
	if pool.TotalAmount < allocation.Amount {
		return models.Pool{}, sentinel.ErrInvalidState
	}
	pool.TotalAmount -= allocation.Amount
	s.pools[allocation.PoolID] = pool
	s.allocations[allocation.Beginner] = allocation
	return pool, nil
}

// AllocationFor reads the last allocation recorded for a beginner, or
// ErrNotFound.
func (s *InMemory) AllocationFor(_ context.Context, beginner domain.AccountID) (models.Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if allocation, ok := s.allocations[beginner]; ok {
		return allocation, nil
	}
	return models.Allocation{}, sentinel.ErrNotFound
}

// ActivePools counts pools whose active flag is set.
func (s *InMemory) ActivePools(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n uint64
	for _, pool := range s.pools {
		if pool.Active {
			n++
		}
	}
	return n, nil
}
