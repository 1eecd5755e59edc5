// internal/app/features/profile/routes.go
package profile

import "github.com/go-chi/chi/v5"

func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/api/profile", h.ServeProfile)
	r.Post("/api/profile/name", h.HandleUpdateName)
	r.Post("/api/profile/picture", h.HandlePicture)
}
