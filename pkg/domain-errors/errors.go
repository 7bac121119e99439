// Package domainerrors defines the coded error vocabulary of the platform.
// Every failed invocation surfaces exactly one code; leaves return codes and
// the orchestrator propagates them unchanged, so callers can branch on the
// code without inspecting messages.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a failure. The authorization and state-machine codes mirror
// the platform's invocation contract one-to-one.
type Code string

const (
	// Identity codes.
	CodeAlreadyRegistered Code = "already_registered"
	CodeNotRegistered     Code = "not_registered"
	CodeInvalidProof      Code = "invalid_proof"
	CodeInvalidSignature  Code = "invalid_signature"

	// Governance codes.
	CodeUnauthorized        Code = "unauthorized"
	CodeTooSoon             Code = "too_soon"
	CodeInvalidExternalData Code = "invalid_external_data"
	CodeInsufficientVotes   Code = "insufficient_votes"
	CodePoolInactive        Code = "pool_inactive"
	CodeInsufficientFunds   Code = "insufficient_pool_funds"

	// Orchestrator codes.
	CodeAdminNotInGoodStanding     Code = "admin_not_in_good_standing"
	CodeAdminNotAuthorized         Code = "admin_not_authorized"
	CodeNotOwner                   Code = "not_owner"
	CodeAlreadyInitialized         Code = "already_initialized"
	CodeNotInitialized             Code = "not_initialized"
	CodeIdentityRegistrationFailed Code = "identity_registration_failed"

	// Ambient codes used by transport and infrastructure.
	CodeBadRequest Code = "bad_request"
	CodeNotFound   Code = "not_found"
	CodeInternal   Code = "internal"
)

// Error carries a code, a human-readable message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a coded error with no cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to a cause. The cause stays reachable
// through errors.Is/As chains.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// HasCode is an alias kept for call sites that read better with it.
func HasCode(err error, code Code) bool {
	return Is(err, code)
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// outside the coded vocabulary.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the HTTP status the transport layer returns.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidProof, CodeInvalidSignature, CodeInvalidExternalData:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeNotOwner, CodeAdminNotAuthorized, CodeAdminNotInGoodStanding, CodeNotRegistered:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyRegistered, CodeAlreadyInitialized, CodeInsufficientVotes,
		CodePoolInactive, CodeInsufficientFunds, CodeNotInitialized, CodeIdentityRegistrationFailed:
		return http.StatusConflict
	case CodeTooSoon:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
