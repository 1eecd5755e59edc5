// internal/app/system/auth/local.go
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/linkuphq/linkup/internal/app/store/records"
	"github.com/linkuphq/linkup/internal/app/system/faults"
)

const authUsersTable = "auth_users"

// DefaultSessionTTL bounds how long an issued token stays valid.
const DefaultSessionTTL = 24 * time.Hour

// authUser is the credential row behind the local provider. It is
// deliberately separate from the domain profile: identity rows carry
// secrets, profiles carry roles.
type authUser struct {
	ID           string    `bson:"_id,omitempty"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

// LocalProvider is a credentials-backed Provider: bcrypt password rows in
// the record store, HS256 JWT session tokens. It holds the current
// session in memory and dispatches transitions synchronously, matching
// the cooperative single-user model of the consuming shell.
type LocalProvider struct {
	store  records.Store
	secret []byte
	ttl    time.Duration
	log    *zap.Logger

	mu        sync.Mutex
	current   *Session
	listeners map[int]Listener
	nextID    int
}

// NewLocalProvider creates a provider signing tokens with secret.
func NewLocalProvider(store records.Store, secret string, log *zap.Logger) *LocalProvider {
	return &LocalProvider{
		store:     store,
		secret:    []byte(secret),
		ttl:       DefaultSessionTTL,
		log:       log,
		listeners: make(map[int]Listener),
	}
}

// SignUp registers a new credential row and returns the new user id.
// The caller is responsible for creating the matching domain profile.
func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", faults.New(faults.Conflict, "email and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", faults.Wrap(faults.Unknown, "hash password", err)
	}
	var created authUser
	err = p.store.Insert(ctx, authUsersTable, authUser{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}, &created)
	if err != nil {
		if errors.Is(err, records.ErrDuplicate) {
			return "", faults.Wrap(faults.Conflict, "email already registered", err)
		}
		return "", faults.Wrap(faults.Transient, "create account", err)
	}
	return created.ID, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, creds Credentials) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	var u authUser
	err := p.store.QueryOne(ctx, authUsersTable, records.Filter{"email": email}, &u)
	if err != nil {
		if errors.Is(err, records.ErrNoRows) {
			return nil, faults.New(faults.Auth, "invalid credentials")
		}
		return nil, faults.Wrap(faults.Transient, "look up account", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)) != nil {
		return nil, faults.New(faults.Auth, "invalid credentials")
	}

	expires := time.Now().Add(p.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"exp":     expires.Unix(),
	})
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return nil, faults.Wrap(faults.Unknown, "sign session token", err)
	}

	sess := &Session{UserID: u.ID, Token: signed, ExpiresAt: expires}

	p.mu.Lock()
	p.current = sess
	fns := p.snapshotListeners()
	p.mu.Unlock()

	for _, fn := range fns {
		fn(SignedIn, sess)
	}
	p.log.Info("signed in", zap.String("user_id", u.ID))
	return sess, nil
}

func (p *LocalProvider) GetSession(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, &SessionError{Op: "get_session", Err: err}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil || p.current.Expired(time.Now()) {
		return nil, nil
	}
	return p.current, nil
}

func (p *LocalProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	wasSignedIn := p.current != nil
	p.current = nil
	fns := p.snapshotListeners()
	p.mu.Unlock()

	if wasSignedIn {
		for _, fn := range fns {
			fn(SignedOut, nil)
		}
	}
	return nil
}

func (p *LocalProvider) OnAuthStateChange(fn Listener) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

// VerifyToken parses and validates a session token, returning the user id
// it was issued for. Used by the HTTP shell to revalidate cookie-carried
// tokens on each request.
func (p *LocalProvider) VerifyToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", faults.New(faults.Auth, "invalid session token")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", faults.New(faults.Auth, "invalid session token")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", faults.New(faults.Auth, "invalid session token")
	}
	return userID, nil
}

// snapshotListeners copies the listener set so dispatch runs outside the
// lock. Caller holds the lock.
func (p *LocalProvider) snapshotListeners() []Listener {
	fns := make([]Listener, 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	return fns
}
