package models

import (
	"time"

	"propdesk/pkg/domain"
)

// Identity is one registered participant.
//
// Invariants:
//   - An account registers at most once; Registered is monotonic false→true
//   - Credential holds a commitment, never raw credentials
type Identity struct {
	Account      domain.AccountID  `json:"account"`
	Credential   domain.Commitment `json:"credential"`
	Registered   bool              `json:"registered"`
	RegisteredAt time.Time         `json:"registered_at"`
}

// TrustAgreement is a user's recorded, admin-scoped grant of trust. Once
// active it stays active: no revocation path exists at this layer.
type TrustAgreement struct {
	User      domain.AccountID  `json:"user"`
	Admin     domain.AccountID  `json:"admin"`
	Terms     domain.Commitment `json:"terms"`
	Active    bool              `json:"active"`
	CreatedAt time.Time         `json:"created_at"`
}

// AgreementKey identifies a (user, admin) pair in the agreement map.
type AgreementKey struct {
	User  domain.AccountID
	Admin domain.AccountID
}

// Key returns the map key for this agreement.
func (a TrustAgreement) Key() AgreementKey {
	return AgreementKey{User: a.User, Admin: a.Admin}
}
