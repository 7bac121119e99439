// Package service implements the identity manager: registration, trust
// agreements, and verified trust score updates. All mutations are
// validate-then-commit so a rejected invocation leaves no trace.
package service

import (
	"context"
	"log/slog"

	identitymetrics "propdesk/internal/identity/metrics"
	"propdesk/internal/identity/models"
	"propdesk/internal/verifier"
	"propdesk/pkg/domain"
	dErrors "propdesk/pkg/domain-errors"
	"propdesk/pkg/platform/eventlog"
	"propdesk/pkg/requestcontext"
)

// Store is the persistence contract the service needs. The in-memory store
// satisfies it; each method is individually atomic.
type Store interface {
	CreateIdentity(ctx context.Context, identity models.Identity) error
	FindIdentity(ctx context.Context, account domain.AccountID) (models.Identity, error)
	SaveAgreement(ctx context.Context, agreement models.TrustAgreement) error
	AgreementActive(ctx context.Context, user, admin domain.AccountID) (bool, error)
	TrustScore(ctx context.Context, admin domain.AccountID) (uint64, error)
	AddTrustScore(ctx context.Context, admin domain.AccountID, delta uint64) (uint64, error)
}

// Service owns identity state transitions. It depends on opaque verifiers for
// proof and signature approval and never implements them itself.
type Service struct {
	store     Store
	verifiers verifier.Set
	events    *eventlog.Emitter
	logger    *slog.Logger
	metrics   *identitymetrics.Metrics
}

func New(store Store, verifiers verifier.Set, events *eventlog.Emitter, logger *slog.Logger, metrics *identitymetrics.Metrics) *Service {
	return &Service{
		store:     store,
		verifiers: verifiers,
		events:    events,
		logger:    logger,
		metrics:   metrics,
	}
}

// RegisterIdentity registers the calling account. Each account registers at
// most once; the credential commitment is stored, never the credentials.
func (s *Service) RegisterIdentity(ctx context.Context, credentials, proof []byte) (*models.Identity, error) {
	caller := requestcontext.Caller(ctx)

	if _, err := s.store.FindIdentity(ctx, caller); err == nil {
		return nil, dErrors.New(dErrors.CodeAlreadyRegistered, "account already registered")
	}

	ok, err := s.verifiers.CredentialProof.VerifyCredentialProof(ctx, credentials, proof)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "credential proof verifier failed")
	}
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidProof, "credential proof rejected")
	}

	identity := models.Identity{
		Account:      caller,
		Credential:   domain.NewCommitment(credentials),
		Registered:   true,
		RegisteredAt: requestcontext.Now(ctx),
	}
	if err := s.store.CreateIdentity(ctx, identity); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeAlreadyRegistered, "account already registered")
	}

	s.emit(ctx, eventlog.ActionIdentityRegistered, caller, caller.Hex(), 0)
	if s.metrics != nil {
		s.metrics.IncrementIdentitiesRegistered()
	}
	s.logger.InfoContext(ctx, "identity registered", "account", caller.Hex())
	return &identity, nil
}

// CreateTrustAgreement records the caller's trust grant toward an admin. The
// caller must hold a verified identity and present a signature the opaque
// verifier approves.
func (s *Service) CreateTrustAgreement(ctx context.Context, admin domain.AccountID, terms, signature []byte) (*models.TrustAgreement, error) {
	caller := requestcontext.Caller(ctx)

	if _, err := s.store.FindIdentity(ctx, caller); err != nil {
		return nil, dErrors.New(dErrors.CodeNotRegistered, "caller has no verified identity")
	}

	ok, err := s.verifiers.Signature.VerifySignature(ctx, caller, admin, terms, signature)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "signature verifier failed")
	}
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidSignature, "agreement signature rejected")
	}

	agreement := models.TrustAgreement{
		User:      caller,
		Admin:     admin,
		Terms:     domain.NewCommitment(terms),
		Active:    true,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.SaveAgreement(ctx, agreement); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save trust agreement")
	}

	s.emit(ctx, eventlog.ActionTrustAgreementCreated, caller, admin.Hex(), 0)
	if s.metrics != nil {
		s.metrics.IncrementAgreementsCreated()
	}
	return &agreement, nil
}

// VerifyTrustAgreement reports whether an active agreement exists for the
// pair. Pure read; pairs never agreed read as false.
func (s *Service) VerifyTrustAgreement(ctx context.Context, user, admin domain.AccountID) (bool, error) {
	return s.store.AgreementActive(ctx, user, admin)
}

// AdminTrustScore reads an admin's accumulated score. Pure read.
func (s *Service) AdminTrustScore(ctx context.Context, admin domain.AccountID) (uint64, error) {
	return s.store.TrustScore(ctx, admin)
}

// UpdateTrustScore adds a verifier-approved delta to an admin's score and
// returns the new total. Scores have no upper bound.
func (s *Service) UpdateTrustScore(ctx context.Context, admin domain.AccountID, delta uint64, proof []byte) (uint64, error) {
	ok, err := s.verifiers.ScoreUpdate.VerifyScoreUpdate(ctx, admin, delta, proof)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "score update verifier failed")
	}
	if !ok {
		return 0, dErrors.New(dErrors.CodeInvalidProof, "score update proof rejected")
	}

	total, err := s.store.AddTrustScore(ctx, admin, delta)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update trust score")
	}

	s.emit(ctx, eventlog.ActionTrustScoreUpdated, requestcontext.Caller(ctx), admin.Hex(), domain.Amount(delta))
	if s.metrics != nil {
		s.metrics.IncrementScoreUpdates()
	}
	return total, nil
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
