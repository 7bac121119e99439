// Package service implements the desk orchestrator: platform initialization,
// the user registration flow, per-user admin authorization, trade execution
// with its audit trail, and the aggregate projections. The two leaf
// components are consumed through narrow interfaces injected at
// initialization, never through shared state.
package service

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	deskmetrics "propdesk/internal/desk/metrics"
	"propdesk/internal/desk/models"
	governancemodels "propdesk/internal/governance/models"
	identitymodels "propdesk/internal/identity/models"
	"propdesk/pkg/domain"
	dErrors "propdesk/pkg/domain-errors"
	"propdesk/pkg/platform/eventlog"
	"propdesk/pkg/requestcontext"
)

// IdentityRegistrar is the slice of the identity manager the desk consumes.
type IdentityRegistrar interface {
	RegisterIdentity(ctx context.Context, credentials, proof []byte) (*identitymodels.Identity, error)
	AdminTrustScore(ctx context.Context, admin domain.AccountID) (uint64, error)
}

// GovernanceReader is the slice of governance the desk consumes.
type GovernanceReader interface {
	CheckAdminStatus(ctx context.Context, admin domain.AccountID) (governancemodels.AdminStatus, error)
	ActivePools(ctx context.Context) (uint64, error)
}

// Store is the desk persistence contract.
type Store interface {
	IncrementUsers(ctx context.Context) (uint64, error)
	Authorize(ctx context.Context, user, admin domain.AccountID) (bool, error)
	Authorized(ctx context.Context, user, admin domain.AccountID) (bool, error)
	AppendTrade(ctx context.Context, record models.TradeRecord) (models.TradeRecord, error)
	TradeBySeq(ctx context.Context, seq domain.TradeSeq) (models.TradeRecord, error)
	TradesFor(ctx context.Context, admin domain.AccountID) ([]models.TradeRecord, error)
	Counters(ctx context.Context) (users, admins, trades uint64, err error)
	ManagedAccounts(ctx context.Context, admin domain.AccountID) (uint64, error)
}

// TradeArchive is an optional durable sink for executed trades. Archive
// writes are best effort: the in-process history is authoritative and an
// archive failure must not unwind an already-committed trade.
type TradeArchive interface {
	Append(ctx context.Context, record models.TradeRecord) error
}

// Service orchestrates the platform. All operations except initialization
// fail with NotInitialized until InitializePlatform succeeds.
type Service struct {
	owner   domain.AccountID
	store   Store
	archive TradeArchive
	events  *eventlog.Emitter
	logger  *slog.Logger
	metrics *deskmetrics.Metrics
	tracer  trace.Tracer

	mu         sync.RWMutex
	identity   IdentityRegistrar
	governance GovernanceReader
}

func New(
	owner domain.AccountID,
	store Store,
	archive TradeArchive,
	events *eventlog.Emitter,
	logger *slog.Logger,
	metrics *deskmetrics.Metrics,
) *Service {
	return &Service{
		owner:   owner,
		store:   store,
		archive: archive,
		events:  events,
		logger:  logger,
		metrics: metrics,
		tracer:  otel.Tracer("propdesk.desk"),
	}
}

// InitializePlatform records the two leaf collaborators and opens the
// platform. Only the owner configured at construction may call it, and only
// once.
func (s *Service) InitializePlatform(ctx context.Context, identity IdentityRegistrar, governance GovernanceReader) error {
	ctx, span := s.tracer.Start(ctx, "desk.InitializePlatform")
	defer span.End()

	caller := requestcontext.Caller(ctx)
	if caller != s.owner {
		return dErrors.New(dErrors.CodeNotOwner, "caller is not the platform owner")
	}

	s.mu.Lock()
	if s.identity != nil {
		s.mu.Unlock()
		return dErrors.New(dErrors.CodeAlreadyInitialized, "platform already initialized")
	}
	s.identity = identity
	s.governance = governance
	s.mu.Unlock()

	s.emit(ctx, eventlog.ActionPlatformInitialized, caller, "", 0)
	s.logger.InfoContext(ctx, "platform initialized", "owner", caller.Hex())
	return nil
}

// collaborators returns the leaf references, or NotInitialized.
func (s *Service) collaborators() (IdentityRegistrar, GovernanceReader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil, nil, dErrors.New(dErrors.CodeNotInitialized, "platform not initialized")
	}
	return s.identity, s.governance, nil
}

// RegisterUser runs identity registration through the platform. Any leaf
// failure surfaces as IdentityRegistrationFailed with the cause attached.
func (s *Service) RegisterUser(ctx context.Context, credentials, proof []byte) (*identitymodels.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "desk.RegisterUser")
	defer span.End()

	identity, _, err := s.collaborators()
	if err != nil {
		return nil, err
	}

	registered, err := identity.RegisterIdentity(ctx, credentials, proof)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeIdentityRegistrationFailed, "identity registration failed")
	}

	total, err := s.store.IncrementUsers(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count user")
	}
	s.emit(ctx, eventlog.ActionUserRegistered, requestcontext.Caller(ctx), registered.Account.Hex(), 0)
	if s.metrics != nil {
		s.metrics.UsersRegistered.Inc()
	}
	s.logger.InfoContext(ctx, "user registered", "account", registered.Account.Hex(), "total_users", total)
	return registered, nil
}

// AuthorizeAdmin grants the calling user's trade authorization to an admin in
// Good standing. Authorization is platform state, deliberately parallel to
// the identity manager's trust agreements rather than derived from them.
func (s *Service) AuthorizeAdmin(ctx context.Context, admin domain.AccountID, agreementTerms []byte) error {
	ctx, span := s.tracer.Start(ctx, "desk.AuthorizeAdmin",
		trace.WithAttributes(attribute.String("admin", admin.Hex())))
	defer span.End()

	_, governance, err := s.collaborators()
	if err != nil {
		return err
	}

	status, err := governance.CheckAdminStatus(ctx, admin)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "status lookup failed")
	}
	if status != governancemodels.StatusGood {
		return dErrors.New(dErrors.CodeAdminNotInGoodStanding, "admin is not in good standing")
	}

	caller := requestcontext.Caller(ctx)
	if _, err := s.store.Authorize(ctx, caller, admin); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record authorization")
	}

	terms := domain.NewCommitment(agreementTerms)
	s.emit(ctx, eventlog.ActionAdminAuthorized, caller, admin.Hex()+":"+terms.String(), 0)
	if s.metrics != nil {
		s.metrics.AdminsAuthorized.Inc()
	}
	return nil
}

// VerifyAdminAuthorization reads the (user, admin) authorization flag. Pairs
// never granted read false.
func (s *Service) VerifyAdminAuthorization(ctx context.Context, user, admin domain.AccountID) (bool, error) {
	if _, _, err := s.collaborators(); err != nil {
		return false, err
	}
	return s.store.Authorized(ctx, user, admin)
}

// ExecuteTrade records a trade executed by the calling admin on behalf of an
// authorizing user. The sequence assigned is the running trade counter; no
// custody moves, amounts are audit metadata.
func (s *Service) ExecuteTrade(ctx context.Context, params models.TradeParams) (models.TradeRecord, error) {
	ctx, span := s.tracer.Start(ctx, "desk.ExecuteTrade",
		trace.WithAttributes(
			attribute.String("user", params.User.Hex()),
			attribute.String("trade_type", params.TradeType),
		))
	defer span.End()

	if _, _, err := s.collaborators(); err != nil {
		return models.TradeRecord{}, err
	}

	caller := requestcontext.Caller(ctx)
	authorized, err := s.store.Authorized(ctx, params.User, caller)
	if err != nil {
		return models.TradeRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "authorization lookup failed")
	}
	if !authorized {
		if s.metrics != nil {
			s.metrics.AuthorizationDenied.Inc()
		}
		return models.TradeRecord{}, dErrors.New(dErrors.CodeAdminNotAuthorized, "user has not authorized the calling admin")
	}

	record, err := s.store.AppendTrade(ctx, models.TradeRecord{
		Admin:      caller,
		User:       params.User,
		Amount:     params.Amount,
		TradeType:  params.TradeType,
		Metadata:   domain.NewCommitment(params.Metadata),
		ExecutedAt: requestcontext.Now(ctx),
	})
	if err != nil {
		return models.TradeRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record trade")
	}

	if s.archive != nil {
		if err := s.archive.Append(ctx, record); err != nil {
			s.logger.WarnContext(ctx, "trade archive write failed", "seq", uint64(record.Seq), "error", err)
		}
	}

	s.emit(ctx, eventlog.ActionTradeExecuted, caller, params.User.Hex(), params.Amount)
	if s.metrics != nil {
		s.metrics.TradesExecuted.Inc()
		s.metrics.TradeVolume.Add(float64(params.Amount))
	}
	return record, nil
}

// ValidateTradeRequest pre-flights a trade without mutating anything: the
// user must have authorized the admin and the admin must currently read Good.
func (s *Service) ValidateTradeRequest(ctx context.Context, admin, user domain.AccountID) (bool, error) {
	_, governance, err := s.collaborators()
	if err != nil {
		return false, err
	}
	authorized, err := s.store.Authorized(ctx, user, admin)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "authorization lookup failed")
	}
	if !authorized {
		return false, nil
	}
	status, err := governance.CheckAdminStatus(ctx, admin)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "status lookup failed")
	}
	return status == governancemodels.StatusGood, nil
}

// PlatformStats reads the aggregate projection. Active pools come live from
// governance rather than a stale counter.
func (s *Service) PlatformStats(ctx context.Context) (models.PlatformStats, error) {
	_, governance, err := s.collaborators()
	if err != nil {
		return models.PlatformStats{}, err
	}
	users, admins, trades, err := s.store.Counters(ctx)
	if err != nil {
		return models.PlatformStats{}, dErrors.Wrap(err, dErrors.CodeInternal, "counter read failed")
	}
	pools, err := governance.ActivePools(ctx)
	if err != nil {
		return models.PlatformStats{}, dErrors.Wrap(err, dErrors.CodeInternal, "pool count read failed")
	}
	return models.PlatformStats{
		TotalUsers:  users,
		TotalAdmins: admins,
		TotalTrades: trades,
		ActivePools: pools,
	}, nil
}

// AdminPerformance composes the per-admin projection from all three
// components. Recorded trades all succeeded, so the rate is total when any
// exist and zero before the first.
func (s *Service) AdminPerformance(ctx context.Context, admin domain.AccountID) (models.AdminStats, error) {
	identity, governance, err := s.collaborators()
	if err != nil {
		return models.AdminStats{}, err
	}
	score, err := identity.AdminTrustScore(ctx, admin)
	if err != nil {
		return models.AdminStats{}, dErrors.Wrap(err, dErrors.CodeInternal, "trust score read failed")
	}
	status, err := governance.CheckAdminStatus(ctx, admin)
	if err != nil {
		return models.AdminStats{}, dErrors.Wrap(err, dErrors.CodeInternal, "status lookup failed")
	}
	managed, err := s.store.ManagedAccounts(ctx, admin)
	if err != nil {
		return models.AdminStats{}, dErrors.Wrap(err, dErrors.CodeInternal, "activity read failed")
	}
	stats := models.AdminStats{
		Admin:                admin,
		TrustScore:           score,
		Status:               status,
		TotalManagedAccounts: managed,
	}
	if managed > 0 {
		stats.SuccessRate = 100
	}
	return stats, nil
}

// TradeHistory lists an admin's recorded trades in execution order.
func (s *Service) TradeHistory(ctx context.Context, admin domain.AccountID) ([]models.TradeRecord, error) {
	if _, _, err := s.collaborators(); err != nil {
		return nil, err
	}
	return s.store.TradesFor(ctx, admin)
}

// TradeBySeq reads one trade by its assigned sequence index.
func (s *Service) TradeBySeq(ctx context.Context, seq domain.TradeSeq) (models.TradeRecord, error) {
	if _, _, err := s.collaborators(); err != nil {
		return models.TradeRecord{}, err
	}
	record, err := s.store.TradeBySeq(ctx, seq)
	if err != nil {
		return models.TradeRecord{}, dErrors.Wrap(err, dErrors.CodeNotFound, "no trade at sequence")
	}
	return record, nil
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
