// internal/app/features/internships/routes.go
package internships

import "github.com/go-chi/chi/v5"

// MountRoutes registers the internship endpoints. The dashboard section
// segment is "internship", matching the navigation paths.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/learner/dashboard/internship", h.ServeLearnerList)
	r.Post("/learner/dashboard/internship/{id}/apply", h.HandleApply)
	r.Post("/learner/dashboard/internship/{id}/withdraw", h.HandleWithdraw)

	r.Get("/contributor/dashboard/internship", h.ServeMine)
	r.Post("/contributor/dashboard/internship", h.HandleCreate)
	r.Put("/contributor/dashboard/internship/{id}", h.HandleUpdate)
	r.Delete("/contributor/dashboard/internship/{id}", h.HandleDelete)
	r.Get("/contributor/dashboard/internship/{id}/applications", h.ServeApplications)
	r.Post("/contributor/dashboard/internship/applications/{applicationID}/status", h.HandleApplicationStatus)
}
