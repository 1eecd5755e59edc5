// internal/app/system/auth/sessionstore.go
package auth

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/app/system/faults"
	"github.com/linkuphq/linkup/internal/domain/models"
)

// ProfileResolver resolves a domain profile for a signed-in identity.
// Satisfied by profiles.Store; declared here so auth stays below the
// store packages in the dependency order.
type ProfileResolver interface {
	Resolve(ctx context.Context, userID string) (models.Profile, error)
}

// SessionStore wraps a Provider with the view the rest of the core wants:
// the last known session, a cached profile re-resolved across sign-in
// transitions, and fail-closed behavior when the provider cannot be
// consulted.
type SessionStore struct {
	provider Provider
	profiles ProfileResolver
	log      *zap.Logger

	mu      sync.Mutex
	session *Session
	profile *models.Profile
	initErr error
	unsub   func()
}

// NewSessionStore loads the current session once and subscribes to
// transitions. A provider error on the initial load fails closed: the
// store starts unauthenticated and records the error for diagnostics.
func NewSessionStore(ctx context.Context, provider Provider, profiles ProfileResolver, log *zap.Logger) *SessionStore {
	s := &SessionStore{provider: provider, profiles: profiles, log: log}

	sess, err := provider.GetSession(ctx)
	if err != nil {
		s.initErr = &SessionError{Op: "initial_load", Err: err}
		log.Warn("session load failed; starting unauthenticated", zap.Error(err))
		sess = nil
	}
	s.session = sess

	s.unsub = provider.OnAuthStateChange(s.handle)
	return s
}

func (s *SessionStore) handle(ev Event, sess *Session) {
	s.mu.Lock()
	switch ev {
	case SignedIn:
		s.session = sess
		s.profile = nil // force a fresh resolve for the new identity
	case SignedOut:
		s.session = nil
		s.profile = nil
	}
	s.mu.Unlock()
	s.log.Info("auth state changed", zap.String("event", ev.String()))
}

// Current returns the last known session, or nil when signed out.
func (s *SessionStore) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// InitError reports the initial-load failure, if any. The store is
// unauthenticated in that case; this exists for diagnostics only.
func (s *SessionStore) InitError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initErr
}

// Profile resolves (and caches) the domain profile for the current
// session. Signed out is an Auth fault; a missing profile row is not an
// error — the resolver returns an unset-role profile for onboarding.
func (s *SessionStore) Profile(ctx context.Context) (models.Profile, error) {
	s.mu.Lock()
	sess := s.session
	if s.profile != nil {
		p := *s.profile
		s.mu.Unlock()
		return p, nil
	}
	s.mu.Unlock()

	if sess == nil {
		return models.Profile{}, faults.New(faults.Auth, "not signed in")
	}
	p, err := s.profiles.Resolve(ctx, sess.UserID)
	if err != nil {
		return models.Profile{}, faults.Wrap(faults.Auth, "resolve profile", err)
	}

	s.mu.Lock()
	// Only cache if the session hasn't changed underneath the resolve.
	if s.session != nil && s.session.UserID == sess.UserID {
		s.profile = &p
	}
	s.mu.Unlock()
	return p, nil
}

// OnChange registers a listener for sign-in/sign-out transitions.
func (s *SessionStore) OnChange(fn Listener) (unsubscribe func()) {
	return s.provider.OnAuthStateChange(fn)
}

// SignOut destroys the provider session; the store observes the
// transition through its own subscription.
func (s *SessionStore) SignOut(ctx context.Context) error {
	return s.provider.SignOut(ctx)
}

// Close unsubscribes from the provider.
func (s *SessionStore) Close() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}
