package verifier

import (
	"context"

	"propdesk/pkg/domain"
)

// Stub accepts any argument whose payload is non-zero. It is the reference
// deployment's placeholder and carries no cryptographic meaning; production
// environments must swap in real verifiers.
type Stub struct{}

// NewStubSet wires the placeholder into all four slots.
func NewStubSet() Set {
	s := Stub{}
	return Set{
		CredentialProof: s,
		Signature:       s,
		ScoreUpdate:     s,
		ExternalData:    s,
	}
}

func (Stub) VerifyCredentialProof(_ context.Context, _, proof []byte) (bool, error) {
	return nonZero(proof), nil
}

func (Stub) VerifySignature(_ context.Context, _, _ domain.AccountID, _, signature []byte) (bool, error) {
	return nonZero(signature), nil
}

func (Stub) VerifyScoreUpdate(_ context.Context, _ domain.AccountID, _ uint64, proof []byte) (bool, error) {
	return nonZero(proof), nil
}

func (Stub) VerifyExternalData(_ context.Context, data []byte) (bool, error) {
	return nonZero(data), nil
}

func nonZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return true
		}
	}
	return false
}
