// internal/app/features/events/handler.go
package events

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

// Handler serves the learner event listing/registration endpoints and
// the contributor event management endpoints.
type Handler struct {
	Store    records.Store
	Log      *zap.Logger
	Notifier notify.Notifier
}

func NewHandler(store records.Store, logger *zap.Logger, n notify.Notifier) *Handler {
	return &Handler{Store: store, Log: logger, Notifier: n}
}

func (h *Handler) registrations() *relationship.Toggle {
	return relationship.NewRegistrations(h.Store, h.Log, h.Notifier)
}

type learnerListResponse struct {
	Events     []models.Event `json:"events"`
	Registered []string       `json:"registered_ids"`
}

// ServeLearnerList handles GET /learner/dashboard/events: active events
// soonest first, plus the ids the caller already registered for.
func (h *Handler) ServeLearnerList(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list events")
	defer cancel()

	c := collection.NewEvents(h.Store, profile, h.Log, h.Notifier)
	if err := c.Fetch(ctx, collection.Public); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	registered, err := h.registrations().Related(ctx, profile.ID)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	shared.JSON(w, http.StatusOK, learnerListResponse{
		Events:     c.Items(),
		Registered: registered,
	})
}

// HandleRegister handles POST /learner/dashboard/events/{id}/register.
// A registration that lands but leaves the attendee counter stale is
// still a success for the caller.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "register for event")
	defer cancel()

	err := h.registrations().Join(ctx, id, profile.ID)
	var syncErr *relationship.CounterSyncError
	if errors.As(err, &syncErr) {
		h.Log.Warn("attendee count stale", zap.String("event_id", id), zap.Error(syncErr))
		err = nil
	}
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "registered"})
}

// HandleUnregister handles POST /learner/dashboard/events/{id}/unregister.
func (h *Handler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "unregister from event")
	defer cancel()

	err := h.registrations().Leave(ctx, id, profile.ID)
	var syncErr *relationship.CounterSyncError
	if errors.As(err, &syncErr) {
		h.Log.Warn("attendee count stale", zap.String("event_id", id), zap.Error(syncErr))
		err = nil
	}
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "unregistered"})
}

// ServeMine handles GET /contributor/dashboard/events.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list own events")
	defer cancel()

	c := collection.NewEvents(h.Store, profile, h.Log, h.Notifier)
	if err := c.Fetch(ctx, collection.Mine); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"events": c.Items()})
}

type createRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	Category     string    `json:"category"`
	Organizer    string    `json:"organizer"`
	ImageURL     string    `json:"image_url"`
	Date         time.Time `json:"date"`
	MaxAttendees int       `json:"max_attendees"`
}

// HandleCreate handles POST /contributor/dashboard/events.
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create event")
	defer cancel()

	c := collection.NewEvents(h.Store, profile, h.Log, h.Notifier)
	created, err := c.Create(ctx, models.Event{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		Category:     req.Category,
		Organizer:    req.Organizer,
		ImageURL:     req.ImageURL,
		Date:         req.Date,
		MaxAttendees: req.MaxAttendees,
	})
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusCreated, created)
}

type updateRequest struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Location     *string    `json:"location,omitempty"`
	Category     *string    `json:"category,omitempty"`
	Organizer    *string    `json:"organizer,omitempty"`
	ImageURL     *string    `json:"image_url,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	MaxAttendees *int       `json:"max_attendees,omitempty"`
	IsActive     *bool      `json:"is_active,omitempty"`
}

func (req updateRequest) patch() records.Filter {
	p := records.Filter{}
	if req.Title != nil {
		p["title"] = *req.Title
	}
	if req.Description != nil {
		p["description"] = *req.Description
	}
	if req.Location != nil {
		p["location"] = *req.Location
	}
	if req.Category != nil {
		p["category"] = *req.Category
	}
	if req.Organizer != nil {
		p["organizer"] = *req.Organizer
	}
	if req.ImageURL != nil {
		p["image_url"] = *req.ImageURL
	}
	if req.Date != nil {
		p["date"] = *req.Date
	}
	if req.MaxAttendees != nil {
		p["max_attendees"] = *req.MaxAttendees
	}
	if req.IsActive != nil {
		p["is_active"] = *req.IsActive
	}
	return p
}

// HandleUpdate handles PUT /contributor/dashboard/events/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())
	id := chi.URLParam(r, "id")

	var req updateRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update event")
	defer cancel()

	c := collection.NewEvents(h.Store, profile, h.Log, h.Notifier)
	updated, err := c.Update(ctx, id, req.patch())
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /contributor/dashboard/events/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete event")
	defer cancel()

	c := collection.NewEvents(h.Store, profile, h.Log, h.Notifier)
	if err := c.Delete(ctx, id); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
