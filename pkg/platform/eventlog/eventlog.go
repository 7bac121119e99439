// Package eventlog models the per-component append-only record log. Every
// successful mutating operation appends exactly one immutable record; the
// core never reads the log back — it exists for external observers.
package eventlog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"propdesk/pkg/domain"
)

// Component names the emitting component, one log stream per component.
type Component string

const (
	ComponentIdentity   Component = "identity"
	ComponentGovernance Component = "governance"
	ComponentPlatform   Component = "platform"
)

// Action names what happened. One action per mutating operation.
type Action string

const (
	// Identity actions.
	ActionIdentityRegistered    Action = "identity_registered"
	ActionTrustAgreementCreated Action = "trust_agreement_created"
	ActionTrustScoreUpdated     Action = "trust_score_updated"

	// Governance actions.
	ActionVoteSubmitted      Action = "vote_submitted"
	ActionAdminStatusChanged Action = "admin_status_changed"
	ActionPoolCreated        Action = "pool_created"
	ActionPoolDonation       Action = "pool_donation"
	ActionFundsAllocated     Action = "funds_allocated"

	// Platform actions.
	ActionPlatformInitialized Action = "platform_initialized"
	ActionUserRegistered      Action = "user_registered"
	ActionAdminAuthorized     Action = "admin_authorized"
	ActionTradeExecuted       Action = "trade_executed"
)

// Record is one immutable log entry. Caller is the account that invoked the
// operation; Subject is the account or resource acted on, rendered as a
// string so pool ids and trade sequences fit the same field.
type Record struct {
	ID        uuid.UUID
	Component Component
	Action    Action
	Caller    domain.AccountID
	Subject   string
	Amount    domain.Amount
	Timestamp time.Time
}

// Log is the append-only sink. Implementations must preserve append order
// and never expose mutation of stored records.
type Log interface {
	Append(ctx context.Context, record Record) error
}

// Emitter stamps records with an id and timestamp before appending. Services
// hold an Emitter bound to their component name.
type Emitter struct {
	component Component
	log       Log
}

// NewEmitter binds a component name to a sink.
func NewEmitter(component Component, log Log) *Emitter {
	return &Emitter{component: component, log: log}
}

// Emit appends one record. The caller supplies the invocation timestamp so
// records carry environment time, not wall-clock time.
func (e *Emitter) Emit(ctx context.Context, record Record) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	record.Component = e.component
	return e.log.Append(ctx, record)
}
