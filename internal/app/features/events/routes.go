// internal/app/features/events/routes.go
package events

import "github.com/go-chi/chi/v5"

// MountRoutes registers the event endpoints. Role and purpose gating
// happens in the access gate middleware on the parent router.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/learner/dashboard/events", h.ServeLearnerList)
	r.Post("/learner/dashboard/events/{id}/register", h.HandleRegister)
	r.Post("/learner/dashboard/events/{id}/unregister", h.HandleUnregister)

	r.Get("/contributor/dashboard/events", h.ServeMine)
	r.Post("/contributor/dashboard/events", h.HandleCreate)
	r.Put("/contributor/dashboard/events/{id}", h.HandleUpdate)
	r.Delete("/contributor/dashboard/events/{id}", h.HandleDelete)
}
