// internal/app/system/accessgate/middleware.go
package accessgate

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/domain/models"
)

// CurrentFunc yields the request's identity: whether a session exists and
// the resolved profile. Errors are treated as unauthenticated.
type CurrentFunc func(r *http.Request) (bool, models.Profile, error)

// Middleware applies the gate to every request in a router subtree,
// issuing the decided redirect or passing through. The HTTP shell mounts
// this over the dashboard subtrees; handlers behind it can assume the
// route evaluation already passed.
func Middleware(current CurrentFunc, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			signedIn, profile, err := current(r)
			if err != nil {
				log.Warn("identity load failed; treating as unauthenticated",
					zap.String("path", r.URL.Path), zap.Error(err))
				signedIn, profile = false, models.Profile{}
			}
			action := Decide(signedIn, profile, r.URL.Path)
			if !action.Allow {
				http.Redirect(w, r, action.RedirectTo, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
