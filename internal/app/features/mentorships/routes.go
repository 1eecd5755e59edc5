// internal/app/features/mentorships/routes.go
package mentorships

import "github.com/go-chi/chi/v5"

func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/learner/dashboard/mentorship", h.ServeLearnerList)

	r.Get("/contributor/dashboard/mentorship", h.ServeMine)
	r.Post("/contributor/dashboard/mentorship", h.HandleCreate)
	r.Put("/contributor/dashboard/mentorship/{id}", h.HandleUpdate)
	r.Delete("/contributor/dashboard/mentorship/{id}", h.HandleDelete)
}
