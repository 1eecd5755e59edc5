// internal/app/features/internships/handler.go
package internships

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/app/collection"
	"github.com/linkuphq/linkup/internal/app/features/shared"
	"github.com/linkuphq/linkup/internal/app/relationship"
	"github.com/linkuphq/linkup/internal/app/store/records"
	"github.com/linkuphq/linkup/internal/app/system/auth"
	"github.com/linkuphq/linkup/internal/app/system/faults"
	"github.com/linkuphq/linkup/internal/app/system/notify"
	"github.com/linkuphq/linkup/internal/app/system/timeouts"
	"github.com/linkuphq/linkup/internal/domain/models"
)

// Handler serves the learner internship browsing/application endpoints
// and the contributor internship management endpoints.
type Handler struct {
	Store    records.Store
	Log      *zap.Logger
	Notifier notify.Notifier
}

func NewHandler(store records.Store, logger *zap.Logger, n notify.Notifier) *Handler {
	return &Handler{Store: store, Log: logger, Notifier: n}
}

func (h *Handler) applications() *relationship.Applications {
	return relationship.NewApplications(h.Store, h.Log, h.Notifier)
}

type learnerListResponse struct {
	Internships  []models.Internship  `json:"internships"`
	Applications []models.Application `json:"applications"`
}

// ServeLearnerList handles GET /learner/dashboard/internship: active
// internships ordered by deadline, plus the caller's applications so
// the client can mark status per listing.
func (h *Handler) ServeLearnerList(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list internships")
	defer cancel()

	c := collection.NewInternships(h.Store, profile, h.Log, h.Notifier)
	if err := c.Fetch(ctx, collection.Public); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	apps, err := h.applications().ListForUser(ctx, profile.ID)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	shared.JSON(w, http.StatusOK, learnerListResponse{
		Internships:  c.Items(),
		Applications: apps,
	})
}

// HandleApply handles POST /learner/dashboard/internship/{id}/apply.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "apply to internship")
	defer cancel()

	app, err := h.applications().Apply(ctx, id, profile.ID)
	var syncErr *relationship.CounterSyncError
	if errors.As(err, &syncErr) {
		h.Log.Warn("applicant count stale", zap.String("internship_id", id), zap.Error(syncErr))
		err = nil
	}
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusCreated, app)
}

// HandleWithdraw handles POST /learner/dashboard/internship/{id}/withdraw.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "withdraw application")
	defer cancel()

	err := h.applications().Withdraw(ctx, id, profile.ID)
	var syncErr *relationship.CounterSyncError
	if errors.As(err, &syncErr) {
		h.Log.Warn("applicant count stale", zap.String("internship_id", id), zap.Error(syncErr))
		err = nil
	}
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "withdrawn"})
}

// ServeMine handles GET /contributor/dashboard/internship.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list own internships")
	defer cancel()

	c := collection.NewInternships(h.Store, profile, h.Log, h.Notifier)
	if err := c.Fetch(ctx, collection.Mine); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"internships": c.Items()})
}

type createRequest struct {
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Duration    string    `json:"duration"`
	Stipend     string    `json:"stipend"`
	Deadline    time.Time `json:"deadline"`
}

// HandleCreate handles POST /contributor/dashboard/internship.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())

	var req createRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	if req.Title == "" {
		shared.Error(w, h.Log, faults.New(faults.Conflict, "title is required"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create internship")
	defer cancel()

	c := collection.NewInternships(h.Store, profile, h.Log, h.Notifier)
	created, err := c.Create(ctx, models.Internship{
		Title:       req.Title,
		Company:     req.Company,
		Description: req.Description,
		Location:    req.Location,
		Duration:    req.Duration,
		Stipend:     req.Stipend,
		Deadline:    req.Deadline,
	})
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusCreated, created)
}

type updateRequest struct {
	Title       *string    `json:"title,omitempty"`
	Company     *string    `json:"company,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Duration    *string    `json:"duration,omitempty"`
	Stipend     *string    `json:"stipend,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

func (req updateRequest) patch() records.Filter {
	p := records.Filter{}
	if req.Title != nil {
		p["title"] = *req.Title
	}
	if req.Company != nil {
		p["company"] = *req.Company
	}
	if req.Description != nil {
		p["description"] = *req.Description
	}
	if req.Location != nil {
		p["location"] = *req.Location
	}
	if req.Duration != nil {
		p["duration"] = *req.Duration
	}
	if req.Stipend != nil {
		p["stipend"] = *req.Stipend
	}
	if req.Deadline != nil {
		p["deadline"] = *req.Deadline
	}
	if req.IsActive != nil {
		p["is_active"] = *req.IsActive
	}
	return p
}

// HandleUpdate handles PUT /contributor/dashboard/internship/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())
	id := chi.URLParam(r, "id")

	var req updateRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update internship")
	defer cancel()

	c := collection.NewInternships(h.Store, profile, h.Log, h.Notifier)
	updated, err := c.Update(ctx, id, req.patch())
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /contributor/dashboard/internship/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete internship")
	defer cancel()

	c := collection.NewInternships(h.Store, profile, h.Log, h.Notifier)
	if err := c.Delete(ctx, id); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ServeApplications handles GET /contributor/dashboard/internship/{id}/applications.
func (h *Handler) ServeApplications(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list applications")
	defer cancel()

	apps, err := h.applications().ListForInternship(ctx, id, profile)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"applications": apps})
}

type statusRequest struct {
	Status models.ApplicationStatus `json:"status"`
}

// HandleApplicationStatus handles
// POST /contributor/dashboard/internship/applications/{applicationID}/status.
func (h *Handler) HandleApplicationStatus(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())
	applicationID := chi.URLParam(r, "applicationID")

	var req statusRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update application status")
	defer cancel()

	updated, err := h.applications().UpdateStatus(ctx, applicationID, req.Status, profile)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, updated)
}
