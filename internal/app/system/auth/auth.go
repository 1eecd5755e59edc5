package auth

import (
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants & globals                                                |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	SessionName = "linkup-session"

	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
	tokenKey  = "token"
)

// Store is initialised once via InitSessionStore.
var Store *sessions.CookieStore

// TokenVerifier revalidates a session token on each request and returns
// the user id it was issued for.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Cookie session lifecycle                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// Establish writes the session cookie after a successful sign-in.
func Establish(w http.ResponseWriter, r *http.Request, userID, token string) error {
	if Store == nil {
		return fmt.Errorf("session store not initialized")
	}
	sess, _ := Store.Get(r, SessionName)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = userID
	sess.Values[tokenKey] = token
	return sess.Save(r, w)
}

// ClearSession expires the session cookie.
func ClearSession(w http.ResponseWriter, r *http.Request) error {
	if Store == nil {
		return nil
	}
	sess, _ := Store.Get(r, SessionName)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Per-request profile loading                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadSessionProfile revalidates the session cookie and injects the
// user's profile into r.Context(). A missing, undecodable, or expired
// session leaves the request unauthenticated; downstream gates decide
// what that means for the route. If the session store has not been
// initialized yet, it is a no-op.
func LoadSessionProfile(verify TokenVerifier, resolver ProfileResolver, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if Store == nil {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := Store.Get(r, SessionName)
			if err != nil {
				// A cookie signed with an old key decodes as garbage;
				// treat the request as signed out rather than erroring.
				if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
					next.ServeHTTP(w, r)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
				next.ServeHTTP(w, r)
				return
			}

			token := getString(sess, tokenKey)
			userID, err := verify.VerifyToken(token)
			if err != nil || userID != getString(sess, userIDKey) {
				next.ServeHTTP(w, r)
				return
			}

			profile, err := resolver.Resolve(r.Context(), userID)
			if err != nil {
				log.Warn("profile resolution failed", zap.String("user_id", userID), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), profile)))
		})
	}
}

// InitSessionStore initializes the global session Store using the provided
// session key and domain. The `secure` flag controls whether cookies are
// marked Secure and which SameSite mode is used.
//
// In production (secure=true), cookies should be Secure + SameSite=None
// (for cross-site use with HTTPS).
// In local dev over http://localhost, use secure=false so cookies are accepted.
func InitSessionStore(sessionKey, domain string, secure bool, logger *zap.Logger) error {
	if sessionKey == "" {
		return fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}

	// SameSite handling: in prod with Secure cookies, we use None
	// so cookies can be sent in cross-site contexts. In dev, Lax is fine.
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}

	store.Options = opts
	Store = store

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return nil
}

// helpers

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
