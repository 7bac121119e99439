// Package verifier declares the four opaque predicates the core consults
// before mutating state. The deployment environment supplies real
// implementations; the core only calls them through these contracts and
// never inspects proof or signature internals.
package verifier

import (
	"context"

	"propdesk/pkg/domain"
)

// CredentialProof approves (credentials, proof) pairs during identity
// registration.
type CredentialProof interface {
	VerifyCredentialProof(ctx context.Context, credentials, proof []byte) (bool, error)
}

// Signature approves a user's signature over trust agreement terms.
type Signature interface {
	VerifySignature(ctx context.Context, signer, counterparty domain.AccountID, terms, signature []byte) (bool, error)
}

// ScoreUpdate approves a trust score delta for an admin.
type ScoreUpdate interface {
	VerifyScoreUpdate(ctx context.Context, admin domain.AccountID, delta uint64, proof []byte) (bool, error)
}

// ExternalData approves externally sourced vote data before status
// validation.
type ExternalData interface {
	VerifyExternalData(ctx context.Context, data []byte) (bool, error)
}

// Set bundles the four verifiers for injection.
type Set struct {
	CredentialProof CredentialProof
	Signature       Signature
	ScoreUpdate     ScoreUpdate
	ExternalData    ExternalData
}
