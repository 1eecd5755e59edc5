// internal/app/features/dashboard/routes.go
package dashboard

import "github.com/go-chi/chi/v5"

// MountRoutes registers the dispatcher and the per-role dashboard
// roots. The access gate middleware has already vetted the caller's
// role for the subtree by the time these run.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/dashboard", h.ServeDispatch)
	r.Get("/learner/dashboard", h.ServeLearnerHome)
	r.Get("/contributor/dashboard", h.ServeContributorHome)
	r.Get("/admin/dashboard", h.ServeAdminHome)
}
