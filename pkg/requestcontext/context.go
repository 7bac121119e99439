// Package requestcontext provides transport-independent accessors for
// request-scoped values.
//
// The execution contract gives every invocation two environment-supplied
// facts: the authenticated caller account and the invocation timestamp.
// Middleware sets both; services read them from here so unit tests can inject
// a fixed caller and a fixed clock without running the HTTP stack.
//
// Usage in services:
//
//	caller := requestcontext.Caller(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests:
//
//	ctx = requestcontext.WithCaller(ctx, adminID)
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	"propdesk/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	callerKey      struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyCaller      = callerKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// Caller retrieves the authenticated caller account from the context.
// Returns the zero account if not set.
func Caller(ctx context.Context) domain.AccountID {
	if caller, ok := ctx.Value(ContextKeyCaller).(domain.AccountID); ok {
		return caller
	}
	return domain.AccountID{}
}

// WithCaller injects the caller account into the context.
func WithCaller(ctx context.Context, caller domain.AccountID) context.Context {
	return context.WithValue(ctx, ContextKeyCaller, caller)
}

// RequestID retrieves the correlation id from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a correlation id into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the invocation timestamp from context. The environment
// guarantees this is monotonic non-decreasing across invocations. Falls back
// to time.Now() for non-HTTP contexts (workers, CLI, tests that don't care).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific invocation time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
