// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/app/collection"
	"github.com/linkuphq/linkup/internal/app/features/shared"
	"github.com/linkuphq/linkup/internal/app/store/records"
	"github.com/linkuphq/linkup/internal/app/system/accessgate"
	"github.com/linkuphq/linkup/internal/app/system/auth"
	"github.com/linkuphq/linkup/internal/app/system/faults"
	"github.com/linkuphq/linkup/internal/app/system/notify"
	"github.com/linkuphq/linkup/internal/app/system/timeouts"
	"github.com/linkuphq/linkup/internal/domain/models"
)

// Handler serves the dashboard dispatcher and the per-role dashboard
// roots.
type Handler struct {
	Store    records.Store
	Log      *zap.Logger
	Notifier notify.Notifier
}

func NewHandler(store records.Store, logger *zap.Logger, n notify.Notifier) *Handler {
	return &Handler{Store: store, Log: logger, Notifier: n}
}

// ServeDispatch handles GET /dashboard: it never renders, it sends the
// user to wherever their profile state points.
func (h *Handler) ServeDispatch(w http.ResponseWriter, r *http.Request) {
	profile, ok := auth.ProfileFrom(r.Context())
	action := accessgate.Decide(ok, profile, accessgate.DispatchPath)
	target := action.RedirectTo
	if target == "" {
		// Decide never allows rendering /dashboard for a role-assigned
		// profile, but fall back to onboarding rather than looping.
		target = accessgate.OnboardingPath
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type homeResponse struct {
	Profile models.Profile       `json:"profile"`
	Nav     []accessgate.NavLink `json:"nav"`
}

// ServeLearnerHome handles GET /learner/dashboard.
func (h *Handler) ServeLearnerHome(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())
	shared.JSON(w, http.StatusOK, homeResponse{
		Profile: profile,
		Nav:     accessgate.NavLinks(profile),
	})
}

type contributorHomeResponse struct {
	Profile models.Profile       `json:"profile"`
	Nav     []accessgate.NavLink `json:"nav"`
	Section models.Section       `json:"section"`
	Total   int                  `json:"total"`
	Recent  int                  `json:"recent_week"`
}

// ServeContributorHome handles GET /contributor/dashboard: summary
// counts for the single resource type the contributor's purpose
// permits.
func (h *Handler) ServeContributorHome(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())

	section, ok := profile.Purpose.Section()
	if !ok {
		shared.Error(w, h.Log, faults.New(faults.Permission, "no contributor purpose assigned"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "contributor dashboard")
	defer cancel()

	var stats collection.Stats
	var err error
	switch section {
	case models.SectionEvents:
		c := collection.NewEvents(h.Store, profile, h.Log, h.Notifier)
		if err = c.Fetch(ctx, collection.Mine); err == nil {
			stats = c.Stats()
		}
	case models.SectionClubs:
		c := collection.NewClubs(h.Store, profile, h.Log, h.Notifier)
		if err = c.Fetch(ctx, collection.Mine); err == nil {
			stats = c.Stats()
		}
	case models.SectionInternship:
		c := collection.NewInternships(h.Store, profile, h.Log, h.Notifier)
		if err = c.Fetch(ctx, collection.Mine); err == nil {
			stats = c.Stats()
		}
	case models.SectionMentorship:
		c := collection.NewMentorships(h.Store, profile, h.Log, h.Notifier)
		if err = c.Fetch(ctx, collection.Mine); err == nil {
			stats = c.Stats()
		}
	}
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	shared.JSON(w, http.StatusOK, contributorHomeResponse{
		Profile: profile,
		Nav:     accessgate.NavLinks(profile),
		Section: section,
		Total:   stats.Total,
		Recent:  stats.RecentWeek,
	})
}

type adminHomeResponse struct {
	Profile models.Profile       `json:"profile"`
	Nav     []accessgate.NavLink `json:"nav"`
	Counts  map[string]int64     `json:"counts"`
}

// ServeAdminHome handles GET /admin/dashboard: platform-wide totals.
func (h *Handler) ServeAdminHome(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin dashboard")
	defer cancel()

	counts := make(map[string]int64)
	for _, table := range []string{"profiles", "events", "clubs", "internships", "mentorships"} {
		n, err := h.Store.Count(ctx, table, records.Filter{})
		if err != nil {
			shared.Error(w, h.Log, faults.Wrap(faults.Transient, "could not load totals", err))
			return
		}
		counts[table] = n
	}

	shared.JSON(w, http.StatusOK, adminHomeResponse{
		Profile: profile,
		Nav:     accessgate.NavLinks(profile),
		Counts:  counts,
	})
}
