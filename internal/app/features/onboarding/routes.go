// internal/app/features/onboarding/routes.go
package onboarding

import "github.com/go-chi/chi/v5"

func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/onboarding", h.ServeState)
	r.Post("/onboarding", h.HandleComplete)
}
