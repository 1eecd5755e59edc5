// internal/app/system/auth/context.go
package auth

import (
	"context"
	"net/http"

	"github.com/linkuphq/linkup/internal/domain/models"
)

type contextKey int

const profileKey contextKey = iota

// WithProfile returns a copy of ctx carrying the resolved profile for
// the signed-in user.
func WithProfile(ctx context.Context, p models.Profile) context.Context {
	return context.WithValue(ctx, profileKey, p)
}

// ProfileFrom extracts the signed-in user's profile from ctx. The
// second return is false for unauthenticated requests.
func ProfileFrom(ctx context.Context) (models.Profile, bool) {
	p, ok := ctx.Value(profileKey).(models.Profile)
	return p, ok
}

// WithTestProfile injects a profile into the request context, bypassing
// the session middleware. Test use only.
func WithTestProfile(r *http.Request, p models.Profile) *http.Request {
	return r.WithContext(WithProfile(r.Context(), p))
}
