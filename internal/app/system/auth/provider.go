// internal/app/system/auth/provider.go

// Package auth wraps the identity-provider collaborator. The core needs
// only a live-session flag, a stable user id, and sign-in/sign-out
// transitions; everything else about identity is the provider's business.
package auth

import (
	"context"
	"fmt"
	"time"
)

// Session is the opaque identity handle: a stable user id plus the raw
// session token. Sessions live only for the process lifetime and are
// never persisted by the core.
type Session struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the session's token lifetime has passed.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Event is an auth-state transition.
type Event int

const (
	SignedIn Event = iota
	SignedOut
)

func (e Event) String() string {
	if e == SignedIn {
		return "SIGNED_IN"
	}
	return "SIGNED_OUT"
}

// Listener receives auth-state transitions. The session is non-nil for
// SignedIn and nil for SignedOut.
type Listener func(Event, *Session)

// Credentials are what SignIn consumes.
type Credentials struct {
	Email    string
	Password string
}

// Provider is the identity-provider contract.
type Provider interface {
	// GetSession returns the current session, or (nil, nil) when signed
	// out. Errors indicate the provider could not be consulted.
	GetSession(ctx context.Context) (*Session, error)

	// SignIn authenticates credentials and establishes a session.
	SignIn(ctx context.Context, creds Credentials) (*Session, error)

	// SignOut destroys the current session. Signed-out is not an error.
	SignOut(ctx context.Context) error

	// OnAuthStateChange registers a listener for sign-in/sign-out
	// transitions and returns an unsubscribe function.
	OnAuthStateChange(fn Listener) (unsubscribe func())
}

// SessionError reports a provider failure. Callers fail closed: a
// SessionError on initial load means unauthenticated, never signed in.
type SessionError struct {
	Op  string
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("auth: %s: %v", e.Op, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }
