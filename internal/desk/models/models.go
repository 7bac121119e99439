// Package models defines the trading desk's orchestration state: the
// per-(user, admin) authorization grid, the append-only trade history, and
// the aggregate projections served to operators.
package models

import (
	"time"

	governance "propdesk/internal/governance/models"
	"propdesk/pkg/domain"
)

// TradeParams is the caller-supplied input to trade execution. Amount is
// recorded as metadata only; no custody moves at this layer.
type TradeParams struct {
	User      domain.AccountID `json:"user"`
	Amount    domain.Amount    `json:"amount"`
	TradeType string           `json:"trade_type"`
	Metadata  []byte           `json:"metadata,omitempty"`
}

// TradeRecord is one executed trade, keyed by (admin, sequence). Sequence is
// the platform-wide trade counter at insertion time, so records are globally
// ordered as well as admin-addressable. Records are immutable once written.
type TradeRecord struct {
	Admin      domain.AccountID  `json:"admin"`
	Seq        domain.TradeSeq   `json:"seq"`
	User       domain.AccountID  `json:"user"`
	Amount     domain.Amount     `json:"amount"`
	TradeType  string            `json:"trade_type"`
	Metadata   domain.Commitment `json:"metadata"`
	ExecutedAt time.Time         `json:"executed_at"`
}

// AuthKey identifies a (user, admin) pair in the authorization grid.
type AuthKey struct {
	User  domain.AccountID
	Admin domain.AccountID
}

// AdminStats is the per-admin performance projection. TrustScore and Status
// come from the identity and governance components; the counters are the
// desk's own. Every recorded trade counts as successful, since failed
// executions abort before anything is written.
type AdminStats struct {
	Admin                domain.AccountID       `json:"admin"`
	TrustScore           uint64                 `json:"trust_score"`
	Status               governance.AdminStatus `json:"status"`
	TotalManagedAccounts uint64                 `json:"total_managed_accounts"`
	SuccessRate          float64                `json:"success_rate"`
}

// PlatformStats is the aggregate read-only projection.
type PlatformStats struct {
	TotalUsers  uint64 `json:"total_users"`
	TotalAdmins uint64 `json:"total_admins"`
	TotalTrades uint64 `json:"total_trades"`
	ActivePools uint64 `json:"active_pools"`
}
