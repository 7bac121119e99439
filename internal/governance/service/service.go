// Package service implements governance: weighted votes with a per-pair
// cooldown, status recomputation from tallies, and donation pools with
// beginner allocations gated on the caller's standing.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"propdesk/internal/governance/config"
	governancemetrics "propdesk/internal/governance/metrics"
	"propdesk/internal/governance/models"
	"propdesk/internal/verifier"
	"propdesk/pkg/domain"
	dErrors "propdesk/pkg/domain-errors"
	"propdesk/pkg/platform/eventlog"
	"propdesk/pkg/platform/sentinel"
	"propdesk/pkg/requestcontext"
)

// TrustChecker is the one read governance performs against the identity
// manager. Keeping it this narrow stops the dependency from ever growing
// into a callback cycle.
type TrustChecker interface {
	VerifyTrustAgreement(ctx context.Context, user, admin domain.AccountID) (bool, error)
}

// Store is the governance persistence contract. Each method is individually
// atomic; Donate and Allocate do their balance checks under the same lock as
// the mutation.
type Store interface {
	AddVote(ctx context.Context, admin domain.AccountID, positive bool, weight uint64) (models.VoteTally, error)
	Tally(ctx context.Context, admin domain.AccountID) (models.VoteTally, error)
	SetStatus(ctx context.Context, admin domain.AccountID, status models.AdminStatus) error
	Status(ctx context.Context, admin domain.AccountID) (models.AdminStatus, error)
	CreatePool(ctx context.Context, pool models.Pool) (models.Pool, error)
	FindPool(ctx context.Context, id domain.PoolID) (models.Pool, error)
	Donate(ctx context.Context, id domain.PoolID, amount domain.Amount) (models.Pool, error)
	Allocate(ctx context.Context, allocation models.Allocation) (models.Pool, error)
	AllocationFor(ctx context.Context, beginner domain.AccountID) (models.Allocation, error)
	ActivePools(ctx context.Context) (uint64, error)
}

// CooldownStore tracks last-vote timestamps per (voter, admin) pair.
type CooldownStore interface {
	LastVote(ctx context.Context, voter, admin domain.AccountID) (time.Time, bool, error)
	SetLastVote(ctx context.Context, voter, admin domain.AccountID, t time.Time) error
}

// Service owns the voting state machine and the pool ledger.
type Service struct {
	store     Store
	cooldowns CooldownStore
	trust     TrustChecker
	external  verifier.ExternalData
	cfg       config.Thresholds
	events    *eventlog.Emitter
	logger    *slog.Logger
	metrics   *governancemetrics.Metrics
}

func New(
	store Store,
	cooldowns CooldownStore,
	trust TrustChecker,
	external verifier.ExternalData,
	cfg config.Thresholds,
	events *eventlog.Emitter,
	logger *slog.Logger,
	metrics *governancemetrics.Metrics,
) *Service {
	return &Service{
		store:     store,
		cooldowns: cooldowns,
		trust:     trust,
		external:  external,
		cfg:       cfg,
		events:    events,
		logger:    logger,
		metrics:   metrics,
	}
}

// SubmitVote adds the caller's weighted vote for an admin. The caller must
// hold an active trust agreement with that admin, and the per-pair cooldown
// must have elapsed. Weight is caller-supplied and unbounded.
func (s *Service) SubmitVote(ctx context.Context, admin domain.AccountID, voteType models.VoteType, weight uint64) (models.VoteTally, error) {
	caller := requestcontext.Caller(ctx)
	now := requestcontext.Now(ctx)

	trusted, err := s.trust.VerifyTrustAgreement(ctx, caller, admin)
	if err != nil {
		return models.VoteTally{}, dErrors.Wrap(err, dErrors.CodeInternal, "trust agreement check failed")
	}
	if !trusted {
		return models.VoteTally{}, dErrors.New(dErrors.CodeUnauthorized, "no active trust agreement with admin")
	}

	last, voted, err := s.cooldowns.LastVote(ctx, caller, admin)
	if err != nil {
		return models.VoteTally{}, dErrors.Wrap(err, dErrors.CodeInternal, "cooldown lookup failed")
	}
	if voted && !now.After(last.Add(s.cfg.VoteCooldown)) {
		return models.VoteTally{}, dErrors.New(dErrors.CodeTooSoon, "vote cooldown has not elapsed")
	}

	// The cooldown write precedes the tally write: if it fails nothing has
	// changed, and the in-process tally write after it cannot fail.
	if err := s.cooldowns.SetLastVote(ctx, caller, admin, now); err != nil {
		return models.VoteTally{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record vote time")
	}
	tally, err := s.store.AddVote(ctx, admin, voteType.IsPositive(), weight)
	if err != nil {
		return models.VoteTally{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record vote")
	}

	s.emit(ctx, eventlog.ActionVoteSubmitted, caller, admin.Hex(), domain.Amount(weight))
	if s.metrics != nil {
		s.metrics.ObserveVote(voteType.IsPositive(), weight)
	}
	return tally, nil
}

// ValidateVotes recomputes an admin's status from the current tallies. The
// recomputation is pure: status can move in either direction on every call,
// and only the negative tally picks the tier.
func (s *Service) ValidateVotes(ctx context.Context, admin domain.AccountID, externalData []byte) (models.AdminStatus, error) {
	ok, err := s.external.VerifyExternalData(ctx, externalData)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "external data verifier failed")
	}
	if !ok {
		return 0, dErrors.New(dErrors.CodeInvalidExternalData, "external vote data rejected")
	}

	tally, err := s.store.Tally(ctx, admin)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "tally lookup failed")
	}
	if tally.Positive < s.cfg.MinVotesForAction {
		return 0, dErrors.New(dErrors.CodeInsufficientVotes, "positive tally below action minimum")
	}

	status := models.StatusFromTally(tally, s.cfg)
	if err := s.store.SetStatus(ctx, admin, status); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist status")
	}

	s.emit(ctx, eventlog.ActionAdminStatusChanged, requestcontext.Caller(ctx), admin.Hex()+":"+status.String(), 0)
	if s.metrics != nil {
		s.metrics.StatusValidations.Inc()
	}
	s.logger.InfoContext(ctx, "admin status validated",
		"admin", admin.Hex(),
		"status", status.String(),
		"positive", tally.Positive,
		"negative", tally.Negative,
	)
	return status, nil
}

// CheckAdminStatus reads an admin's current status. Pure read; admins never
// evaluated read as Good.
func (s *Service) CheckAdminStatus(ctx context.Context, admin domain.AccountID) (models.AdminStatus, error) {
	return s.store.Status(ctx, admin)
}

// Tally reads an admin's current vote tally. Pure read.
func (s *Service) Tally(ctx context.Context, admin domain.AccountID) (models.VoteTally, error) {
	return s.store.Tally(ctx, admin)
}

// CreatePropPool stores a new active pool under the next sequential id. Any
// caller may create a pool; only allocation is gated on standing.
func (s *Service) CreatePropPool(ctx context.Context, initialAmount domain.Amount, params []byte) (models.Pool, error) {
	pool, err := s.store.CreatePool(ctx, models.Pool{
		TotalAmount: initialAmount,
		Active:      true,
		Params:      domain.NewCommitment(params),
		CreatedAt:   requestcontext.Now(ctx),
	})
	if err != nil {
		return models.Pool{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create pool")
	}

	s.emit(ctx, eventlog.ActionPoolCreated, requestcontext.Caller(ctx), pool.ID.String(), initialAmount)
	if s.metrics != nil {
		s.metrics.PoolsCreated.Inc()
	}
	return pool, nil
}

// DonateToPool increases a pool's custodied balance. Inactive and missing
// pools both reject the donation.
func (s *Service) DonateToPool(ctx context.Context, id domain.PoolID, amount domain.Amount) (models.Pool, error) {
	pool, err := s.store.Donate(ctx, id, amount)
	if err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			return models.Pool{}, dErrors.New(dErrors.CodePoolInactive, "pool is not accepting donations")
		}
		return models.Pool{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record donation")
	}

	s.emit(ctx, eventlog.ActionPoolDonation, requestcontext.Caller(ctx), id.String(), amount)
	if s.metrics != nil {
		s.metrics.Donations.Inc()
	}
	return pool, nil
}

// AllocateToBeginner moves funds from a pool to a beginner's recorded
// allocation. The calling admin must be in Good standing, and the pool must
// cover the amount. The beginner's record is overwritten, not accumulated.
func (s *Service) AllocateToBeginner(ctx context.Context, beginner domain.AccountID, id domain.PoolID, amount domain.Amount) (models.Pool, error) {
	caller := requestcontext.Caller(ctx)

	status, err := s.store.Status(ctx, caller)
	if err != nil {
		return models.Pool{}, dErrors.Wrap(err, dErrors.CodeInternal, "status lookup failed")
	}
	if status != models.StatusGood {
		return models.Pool{}, dErrors.New(dErrors.CodeAdminNotInGoodStanding, "caller is not in good standing")
	}

	pool, err := s.store.Allocate(ctx, models.Allocation{
		Beginner:    beginner,
		PoolID:      id,
		Amount:      amount,
		AllocatedAt: requestcontext.Now(ctx),
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			return models.Pool{}, dErrors.New(dErrors.CodeInsufficientFunds, "pool balance below requested amount")
		}
		return models.Pool{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record allocation")
	}

	s.emit(ctx, eventlog.ActionFundsAllocated, caller, beginner.Hex(), amount)
	if s.metrics != nil {
		s.metrics.Allocations.Inc()
	}
	return pool, nil
}

// Pool reads one pool. Pure read.
func (s *Service) Pool(ctx context.Context, id domain.PoolID) (models.Pool, error) {
	pool, err := s.store.FindPool(ctx, id)
	if err != nil {
		return models.Pool{}, dErrors.Wrap(err, dErrors.CodeNotFound, "no such pool")
	}
	return pool, nil
}

// AllocationFor reads the last allocation recorded for a beginner.
func (s *Service) AllocationFor(ctx context.Context, beginner domain.AccountID) (models.Allocation, error) {
	allocation, err := s.store.AllocationFor(ctx, beginner)
	if err != nil {
		return models.Allocation{}, dErrors.Wrap(err, dErrors.CodeNotFound, "no allocation recorded")
	}
	return allocation, nil
}

// ActivePools counts currently active pools, feeding the platform stats
// projection.
func (s *Service) ActivePools(ctx context.Context) (uint64, error) {
	return s.store.ActivePools(ctx)
}

// emit runs after the state mutation has committed, so a sink failure is
// logged rather than returned: the invocation already succeeded and must not
// be reported as rejected.
func (s *Service) emit(ctx context.Context, action eventlog.Action, caller domain.AccountID, subject string, amount domain.Amount) {
	err := s.events.Emit(ctx, eventlog.Record{
		Action:    action,
		Caller:    caller,
		Subject:   subject,
		Amount:    amount,
		Timestamp: requestcontext.Now(ctx),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "event append failed", "action", string(action), "error", err)
	}
}
