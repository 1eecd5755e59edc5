// internal/app/features/logout/routes.go
package logout

import "github.com/go-chi/chi/v5"

func MountRoutes(r chi.Router, h *Handler) {
	r.Post("/logout", h.HandleLogout)
}
