// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// MountRoutes registers the credential endpoints on the root router.
func MountRoutes(r chi.Router, h *Handler) {
	r.Post("/signup", h.HandleSignup)
	r.Post("/login", h.HandleLogin)
}
