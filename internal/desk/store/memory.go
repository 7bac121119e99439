// Package store holds the desk's orchestration state: aggregate counters,
// the (user, admin) authorization grid, per-admin activity, and the trade
// history. Absent keys read as defined defaults (authorization false, zero
// counters).
package store

import (
	"context"
	"sync"

	"propdesk/internal/desk/models"
	"propdesk/pkg/domain"
	"propdesk/pkg/platform/sentinel"
)

// InMemory keeps desk state in process. AppendTrade assigns the sequence,
// bumps the counters, and writes the record under one lock, so a trade either
// lands completely or not at all.
type InMemory struct {
	mu          sync.RWMutex
	users       uint64
	authorized  map[models.AuthKey]bool
	knownAdmins map[domain.AccountID]struct{}
	managed     map[domain.AccountID]uint64
	trades      []models.TradeRecord
	bySeq       map[domain.TradeSeq]int
}

func NewInMemory() *InMemory {
	return &InMemory{
		authorized:  make(map[models.AuthKey]bool),
		knownAdmins: make(map[domain.AccountID]struct{}),
		managed:     make(map[domain.AccountID]uint64),
		bySeq:       make(map[domain.TradeSeq]int),
	}
}

// IncrementUsers bumps the registered-user counter and returns the new total.
func (s *InMemory) IncrementUsers(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users++
	return s.users, nil
}

// Authorize sets the (user, admin) flag and reports whether this admin was
// seen for the first time, which feeds the distinct-admin counter.
func (s *InMemory) Authorize(_ context.Context, user, admin domain.AccountID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorized[models.AuthKey{User: user, Admin: admin}] = true
	if _, known := s.knownAdmins[admin]; known {
		return false, nil
	}
	s.knownAdmins[admin] = struct{}{}
	return true, nil
}

// Authorized reads the (user, admin) flag. Pairs never granted read false.
func (s *InMemory) Authorized(_ context.Context, user, admin domain.AccountID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authorized[models.AuthKey{User: user, Admin: admin}], nil
}

// AppendTrade writes one trade record. The sequence is the running trade
// count at insertion, and the admin's managed-account count increments with
// the same lock held.
func (s *InMemory) AppendTrade(_ context.Context, record models.TradeRecord) (models.TradeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.Seq = domain.TradeSeq(len(s.trades))
	s.bySeq[record.Seq] = len(s.trades)
	s.trades = append(s.trades, record)
	s.managed[record.Admin]++
	return record, nil
}

// TradeBySeq reads one trade record by its assigned sequence index.
func (s *InMemory) TradeBySeq(_ context.Context, seq domain.TradeSeq) (models.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.bySeq[seq]
	if !ok {
		return models.TradeRecord{}, sentinel.ErrNotFound
	}
	return s.trades[i], nil
}

// TradesFor lists an admin's trades in execution order.
func (s *InMemory) TradesFor(_ context.Context, admin domain.AccountID) ([]models.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.TradeRecord
	for _, record := range s.trades {
		if record.Admin == admin {
			out = append(out, record)
		}
	}
	return out, nil
}

// Counters reads the aggregate user, admin, and trade totals.
func (s *InMemory) Counters(_ context.Context) (users, admins, trades uint64, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users, uint64(len(s.knownAdmins)), uint64(len(s.trades)), nil
}

// ManagedAccounts reads an admin's executed-trade count. Unknown admins read
// zero.
func (s *InMemory) ManagedAccounts(_ context.Context, admin domain.AccountID) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.managed[admin], nil
}
