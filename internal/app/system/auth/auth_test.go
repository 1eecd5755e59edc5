package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/app/store/records"
	"github.com/linkuphq/linkup/internal/app/system/auth"
	"github.com/linkuphq/linkup/internal/app/system/faults"
	"github.com/linkuphq/linkup/internal/domain/models"
	"github.com/linkuphq/linkup/internal/testutil"
)

const testSecret = "test-signing-secret-32-chars-long!!"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newProvider(t *testing.T) (*auth.LocalProvider, records.Store) {
	t.Helper()
	store := testutil.NewStore(t)
	return auth.NewLocalProvider(store, testSecret, zap.NewNop()), store
}

func TestSignUpAndSignIn(t *testing.T) {
	ctx := testutil.TestContext(t)
	p, _ := newProvider(t)

	userID, err := p.SignUp(ctx, "Dana@Example.com", "hunter2secret")
	if err != nil {
		t.Fatalf("expected sign-up to succeed, got %v", err)
	}
	if userID == "" {
		t.Fatal("expected a user id from sign-up")
	}

	// Email lookup is case-insensitive because sign-up lowercases.
	sess, err := p.SignIn(ctx, auth.Credentials{Email: "dana@example.com", Password: "hunter2secret"})
	if err != nil {
		t.Fatalf("expected sign-in to succeed, got %v", err)
	}
	if sess.UserID != userID {
		t.Errorf("expected session for %q, got %q", userID, sess.UserID)
	}
	if sess.Expired(time.Now()) {
		t.Error("expected fresh session to not be expired")
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	ctx := testutil.TestContext(t)
	p, _ := newProvider(t)

	if _, err := p.SignUp(ctx, "dup@example.com", "password1"); err != nil {
		t.Fatalf("first sign-up failed: %v", err)
	}
	_, err := p.SignUp(ctx, "dup@example.com", "password2")
	if !faults.IsKind(err, faults.Conflict) {
		t.Errorf("expected conflict for duplicate email, got %v", err)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	ctx := testutil.TestContext(t)
	p, _ := newProvider(t)

	if _, err := p.SignUp(ctx, "who@example.com", "rightpassword"); err != nil {
		t.Fatalf("sign-up failed: %v", err)
	}
	_, err := p.SignIn(ctx, auth.Credentials{Email: "who@example.com", Password: "wrongpassword"})
	if !faults.IsKind(err, faults.Auth) {
		t.Errorf("expected auth fault for wrong password, got %v", err)
	}
}

func TestVerifyToken_RoundTrip(t *testing.T) {
	ctx := testutil.TestContext(t)
	p, _ := newProvider(t)

	userID, err := p.SignUp(ctx, "token@example.com", "password123")
	if err != nil {
		t.Fatalf("sign-up failed: %v", err)
	}
	sess, err := p.SignIn(ctx, auth.Credentials{Email: "token@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}

	got, err := p.VerifyToken(sess.Token)
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}
	if got != userID {
		t.Errorf("expected token for %q, got %q", userID, got)
	}

	if _, err := p.VerifyToken("not-a-token"); err == nil {
		t.Error("expected garbage token to fail verification")
	}
}

func TestAuthStateListeners(t *testing.T) {
	ctx := testutil.TestContext(t)
	p, _ := newProvider(t)

	if _, err := p.SignUp(ctx, "events@example.com", "password123"); err != nil {
		t.Fatalf("sign-up failed: %v", err)
	}

	var got []auth.Event
	unsub := p.OnAuthStateChange(func(ev auth.Event, _ *auth.Session) {
		got = append(got, ev)
	})
	defer unsub()

	if _, err := p.SignIn(ctx, auth.Credentials{Email: "events@example.com", Password: "password123"}); err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	if err := p.SignOut(ctx); err != nil {
		t.Fatalf("sign-out failed: %v", err)
	}
	// Signing out while already signed out must not re-notify.
	if err := p.SignOut(ctx); err != nil {
		t.Fatalf("second sign-out failed: %v", err)
	}

	want := []auth.Event{auth.SignedIn, auth.SignedOut}
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	ctx := testutil.TestContext(t)
	p, _ := newProvider(t)

	if _, err := p.SignUp(ctx, "unsub@example.com", "password123"); err != nil {
		t.Fatalf("sign-up failed: %v", err)
	}

	calls := 0
	unsub := p.OnAuthStateChange(func(auth.Event, *auth.Session) { calls++ })
	unsub()

	if _, err := p.SignIn(ctx, auth.Credentials{Email: "unsub@example.com", Password: "password123"}); err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no deliveries after unsubscribe, got %d", calls)
	}
}

func TestGetSession_SignedOut(t *testing.T) {
	ctx := testutil.TestContext(t)
	p, _ := newProvider(t)

	sess, err := p.GetSession(ctx)
	if err != nil {
		t.Fatalf("expected nil error when signed out, got %v", err)
	}
	if sess != nil {
		t.Errorf("expected nil session when signed out, got %+v", sess)
	}
}

// failingResolver simulates a profile lookup outage.
type failingResolver struct{}

func (failingResolver) Resolve(context.Context, string) (models.Profile, error) {
	return models.Profile{}, errors.New("profiles unavailable")
}

func TestSessionStore_ProfileFailsClosed(t *testing.T) {
	ctx := testutil.TestContext(t)
	p, _ := newProvider(t)

	if _, err := p.SignUp(ctx, "closed@example.com", "password123"); err != nil {
		t.Fatalf("sign-up failed: %v", err)
	}
	if _, err := p.SignIn(ctx, auth.Credentials{Email: "closed@example.com", Password: "password123"}); err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}

	ss := auth.NewSessionStore(ctx, p, failingResolver{}, zap.NewNop())
	defer ss.Close()

	if _, err := ss.Profile(ctx); !faults.IsKind(err, faults.Auth) {
		t.Errorf("expected auth fault when profile resolution fails, got %v", err)
	}
}

// downProvider simulates an identity-provider outage.
type downProvider struct{}

func (downProvider) GetSession(context.Context) (*auth.Session, error) {
	return nil, errors.New("provider unreachable")
}

func (downProvider) SignIn(context.Context, auth.Credentials) (*auth.Session, error) {
	return nil, errors.New("provider unreachable")
}

func (downProvider) SignOut(context.Context) error {
	return errors.New("provider unreachable")
}

func (downProvider) OnAuthStateChange(auth.Listener) (unsubscribe func()) {
	return func() {}
}

func TestSessionStore_InitFailsClosed(t *testing.T) {
	ctx := testutil.TestContext(t)

	ss := auth.NewSessionStore(ctx, downProvider{}, staticResolver{}, zap.NewNop())
	defer ss.Close()

	if sess := ss.Current(); sess != nil {
		t.Errorf("expected no session when the provider cannot be consulted, got %+v", sess)
	}
	var serr *auth.SessionError
	if err := ss.InitError(); !errors.As(err, &serr) {
		t.Errorf("expected SessionError from the initial load, got %v", err)
	}
}

func TestSessionStore_TracksSignOut(t *testing.T) {
	ctx := testutil.TestContext(t)
	p, _ := newProvider(t)

	if _, err := p.SignUp(ctx, "track@example.com", "password123"); err != nil {
		t.Fatalf("sign-up failed: %v", err)
	}
	if _, err := p.SignIn(ctx, auth.Credentials{Email: "track@example.com", Password: "password123"}); err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}

	ss := auth.NewSessionStore(ctx, p, staticResolver{}, zap.NewNop())
	defer ss.Close()

	if ss.Current() == nil {
		t.Fatal("expected a current session after sign-in")
	}
	if err := ss.SignOut(ctx); err != nil {
		t.Fatalf("sign-out failed: %v", err)
	}
	if ss.Current() != nil {
		t.Error("expected no current session after sign-out")
	}
	if _, err := ss.Profile(ctx); !faults.IsKind(err, faults.Auth) {
		t.Error("expected auth fault for Profile after sign-out")
	}
}

// staticResolver returns a fixed learner profile.
type staticResolver struct{}

func (staticResolver) Resolve(_ context.Context, userID string) (models.Profile, error) {
	return models.Profile{ID: userID, Role: models.RoleLearner}, nil
}
