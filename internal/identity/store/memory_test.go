package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"propdesk/internal/identity/models"
	"propdesk/pkg/domain"
	"propdesk/pkg/platform/sentinel"
)

type IdentityStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestIdentityStoreSuite(t *testing.T) {
	suite.Run(t, new(IdentityStoreSuite))
}

func (s *IdentityStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *IdentityStoreSuite) newIdentity(account uint64) models.Identity {
	return models.Identity{
		Account:      domain.AccountIDFromUint64(account),
		Credential:   domain.NewCommitment([]byte("creds")),
		Registered:   true,
		RegisteredAt: time.Now(),
	}
}

func (s *IdentityStoreSuite) TestIdentityLifecycle() {
	s.Run("creates and finds identity", func() {
		identity := s.newIdentity(1)
		s.Require().NoError(s.store.CreateIdentity(s.ctx, identity))

		found, err := s.store.FindIdentity(s.ctx, identity.Account)
		s.Require().NoError(err)
		s.Equal(identity.Credential, found.Credential)
	})

	s.Run("rejects duplicate registration", func() {
		identity := s.newIdentity(2)
		s.Require().NoError(s.store.CreateIdentity(s.ctx, identity))
		s.ErrorIs(s.store.CreateIdentity(s.ctx, identity), sentinel.ErrConflict)
	})

	s.Run("returns ErrNotFound for unknown account", func() {
		_, err := s.store.FindIdentity(s.ctx, domain.AccountIDFromUint64(404))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *IdentityStoreSuite) TestAgreementDefaults() {
	user := domain.AccountIDFromUint64(3)
	admin := domain.AccountIDFromUint64(4)

	s.Run("absent pair reads inactive", func() {
		active, err := s.store.AgreementActive(s.ctx, user, admin)
		s.Require().NoError(err)
		s.False(active)
	})

	s.Run("saved agreement reads active", func() {
		s.Require().NoError(s.store.SaveAgreement(s.ctx, models.TrustAgreement{
			User: user, Admin: admin, Active: true, CreatedAt: time.Now(),
		}))
		active, err := s.store.AgreementActive(s.ctx, user, admin)
		s.Require().NoError(err)
		s.True(active)
	})

	s.Run("pair direction matters", func() {
		active, err := s.store.AgreementActive(s.ctx, admin, user)
		s.Require().NoError(err)
		s.False(active)
	})
}

func (s *IdentityStoreSuite) TestTrustScores() {
	admin := domain.AccountIDFromUint64(5)

	score, err := s.store.TrustScore(s.ctx, admin)
	s.Require().NoError(err)
	s.Zero(score)

	total, err := s.store.AddTrustScore(s.ctx, admin, 10)
	s.Require().NoError(err)
	s.Equal(uint64(10), total)

	total, err = s.store.AddTrustScore(s.ctx, admin, 5)
	s.Require().NoError(err)
	s.Equal(uint64(15), total)
}
