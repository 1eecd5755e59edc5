// internal/app/features/mentorships/handler.go
package mentorships

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/app/collection"
	"github.com/linkuphq/linkup/internal/app/features/shared"
	"github.com/linkuphq/linkup/internal/app/store/records"
	"github.com/linkuphq/linkup/internal/app/system/auth"
	"github.com/linkuphq/linkup/internal/app/system/faults"
	"github.com/linkuphq/linkup/internal/app/system/notify"
	"github.com/linkuphq/linkup/internal/app/system/timeouts"
	"github.com/linkuphq/linkup/internal/domain/models"
)

// Handler serves mentorship browsing for learners and mentorship
// management for contributors. Mentorships have no join relationship;
// learners contact mentors directly.
type Handler struct {
	Store    records.Store
	Log      *zap.Logger
	Notifier notify.Notifier
}

func NewHandler(store records.Store, logger *zap.Logger, n notify.Notifier) *Handler {
	return &Handler{Store: store, Log: logger, Notifier: n}
}

// ServeLearnerList handles GET /learner/dashboard/mentorship.
func (h *Handler) ServeLearnerList(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list mentorships")
	defer cancel()

	c := collection.NewMentorships(h.Store, profile, h.Log, h.Notifier)
	if err := c.Fetch(ctx, collection.Public); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"mentorships": c.Items()})
}

// ServeMine handles GET /contributor/dashboard/mentorship.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list own mentorships")
	defer cancel()

	c := collection.NewMentorships(h.Store, profile, h.Log, h.Notifier)
	if err := c.Fetch(ctx, collection.Mine); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"mentorships": c.Items()})
}

type createRequest struct {
	Title        string `json:"title"`
	Expertise    string `json:"expertise"`
	Description  string `json:"description"`
	Availability string `json:"availability"`
}

// HandleCreate handles POST /contributor/dashboard/mentorship.
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create mentorship")
	defer cancel()

	c := collection.NewMentorships(h.Store, profile, h.Log, h.Notifier)
	created, err := c.Create(ctx, models.Mentorship{
		Title:        req.Title,
		Expertise:    req.Expertise,
		Description:  req.Description,
		Availability: req.Availability,
	})
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusCreated, created)
}

type updateRequest struct {
	Title        *string `json:"title,omitempty"`
	Expertise    *string `json:"expertise,omitempty"`
	Description  *string `json:"description,omitempty"`
	Availability *string `json:"availability,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (req updateRequest) patch() records.Filter {
	p := records.Filter{}
	if req.Title != nil {
		p["title"] = *req.Title
	}
	if req.Expertise != nil {
		p["expertise"] = *req.Expertise
	}
	if req.Description != nil {
		p["description"] = *req.Description
	}
	if req.Availability != nil {
		p["availability"] = *req.Availability
	}
	if req.IsActive != nil {
		p["is_active"] = *req.IsActive
	}
	return p
}

// HandleUpdate handles PUT /contributor/dashboard/mentorship/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())
	id := chi.URLParam(r, "id")

	var req updateRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update mentorship")
	defer cancel()

	c := collection.NewMentorships(h.Store, profile, h.Log, h.Notifier)
	updated, err := c.Update(ctx, id, req.patch())
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /contributor/dashboard/mentorship/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete mentorship")
	defer cancel()

	c := collection.NewMentorships(h.Store, profile, h.Log, h.Notifier)
	if err := c.Delete(ctx, id); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
