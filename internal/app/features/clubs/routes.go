// internal/app/features/clubs/routes.go
package clubs

import "github.com/go-chi/chi/v5"

func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/learner/dashboard/clubs", h.ServeLearnerList)
	r.Post("/learner/dashboard/clubs/{id}/join", h.HandleJoin)
	r.Post("/learner/dashboard/clubs/{id}/leave", h.HandleLeave)

	r.Get("/contributor/dashboard/clubs", h.ServeMine)
	r.Post("/contributor/dashboard/clubs", h.HandleCreate)
	r.Put("/contributor/dashboard/clubs/{id}", h.HandleUpdate)
	r.Delete("/contributor/dashboard/clubs/{id}", h.HandleDelete)
}
