package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"propdesk/internal/governance/models"
	"propdesk/pkg/domain"
	"propdesk/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) TestVotes() {
	admin := domain.AccountIDFromUint64(1)

	s.Run("unknown admin reads as zero tally", func() {
		tally, err := s.store.Tally(s.ctx, admin)
		s.Require().NoError(err)
		s.Equal(admin, tally.Admin)
		s.Zero(tally.Positive)
		s.Zero(tally.Negative)
	})

	s.Run("weights accumulate per side", func() {
		_, err := s.store.AddVote(s.ctx, admin, true, 4)
		s.Require().NoError(err)
		_, err = s.store.AddVote(s.ctx, admin, false, 2)
		s.Require().NoError(err)
		tally, err := s.store.AddVote(s.ctx, admin, true, 6)
		s.Require().NoError(err)
		s.Equal(uint64(10), tally.Positive)
		s.Equal(uint64(2), tally.Negative)
	})
}

func (s *InMemoryStoreSuite) TestStatus() {
	admin := domain.AccountIDFromUint64(2)

	s.Run("unknown admin reads as Good", func() {
		status, err := s.store.Status(s.ctx, admin)
		s.Require().NoError(err)
		s.Equal(models.StatusGood, status)
	})

	s.Run("set then read", func() {
		s.Require().NoError(s.store.SetStatus(s.ctx, admin, models.StatusBanned))
		status, err := s.store.Status(s.ctx, admin)
		s.Require().NoError(err)
		s.Equal(models.StatusBanned, status)
	})
}

func (s *InMemoryStoreSuite) TestPools() {
	beginner := domain.AccountIDFromUint64(3)
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	s.Run("sequential ids from 1", func() {
		p1, err := s.store.CreatePool(s.ctx, models.Pool{TotalAmount: 100, Active: true, CreatedAt: now})
		s.Require().NoError(err)
		s.Equal(domain.PoolID(1), p1.ID)

		p2, err := s.store.CreatePool(s.ctx, models.Pool{Active: false, CreatedAt: now})
		s.Require().NoError(err)
		s.Equal(domain.PoolID(2), p2.ID)
	})

	s.Run("missing pool is not found", func() {
		_, err := s.store.FindPool(s.ctx, 42)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("donation to inactive or missing pool is invalid state", func() {
		_, err := s.store.Donate(s.ctx, 2, 10)
		s.ErrorIs(err, sentinel.ErrInvalidState)
		_, err = s.store.Donate(s.ctx, 42, 10)
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("donation raises the balance", func() {
		pool, err := s.store.Donate(s.ctx, 1, 50)
		s.Require().NoError(err)
		s.Equal(domain.Amount(150), pool.TotalAmount)
	})

	s.Run("allocation over balance fails atomically", func() {
		_, err := s.store.Allocate(s.ctx, models.Allocation{Beginner: beginner, PoolID: 1, Amount: 151})
		s.ErrorIs(err, sentinel.ErrInvalidState)

		pool, err := s.store.FindPool(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal(domain.Amount(150), pool.TotalAmount)

		_, err = s.store.AllocationFor(s.ctx, beginner)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("allocation debits and overwrites the record", func() {
		pool, err := s.store.Allocate(s.ctx, models.Allocation{Beginner: beginner, PoolID: 1, Amount: 60, AllocatedAt: now})
		s.Require().NoError(err)
		s.Equal(domain.Amount(90), pool.TotalAmount)

		_, err = s.store.Allocate(s.ctx, models.Allocation{Beginner: beginner, PoolID: 1, Amount: 30, AllocatedAt: now.Add(time.Hour)})
		s.Require().NoError(err)

		allocation, err := s.store.AllocationFor(s.ctx, beginner)
		s.Require().NoError(err)
		s.Equal(domain.Amount(30), allocation.Amount)
		s.Equal(now.Add(time.Hour), allocation.AllocatedAt)
	})

	s.Run("allocation from inactive or missing pool is invalid state", func() {
		// Even a zero-amount allocation is rejected when the pool is not
		// accepting activity, same as donations.
		_, err := s.store.Allocate(s.ctx, models.Allocation{Beginner: beginner, PoolID: 2, Amount: 0})
		s.ErrorIs(err, sentinel.ErrInvalidState)
		_, err = s.store.Allocate(s.ctx, models.Allocation{Beginner: beginner, PoolID: 42, Amount: 0})
		s.ErrorIs(err, sentinel.ErrInvalidState)

		allocation, err := s.store.AllocationFor(s.ctx, beginner)
		s.Require().NoError(err)
		s.Equal(domain.Amount(30), allocation.Amount, "rejected allocation must not overwrite the record")
	})

	s.Run("active pools counts only the active flag", func() {
		n, err := s.store.ActivePools(s.ctx)
		s.Require().NoError(err)
		s.Equal(uint64(1), n)
	})
}
