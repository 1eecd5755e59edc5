// internal/app/features/clubs/handler.go
package clubs

import (
	"errors"
	"net/http"

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

// Handler serves the learner club browsing/membership endpoints and the
// contributor club management endpoints.
type Handler struct {
	Store    records.Store
	Log      *zap.Logger
	Notifier notify.Notifier
}

func NewHandler(store records.Store, logger *zap.Logger, n notify.Notifier) *Handler {
	return &Handler{Store: store, Log: logger, Notifier: n}
}

func (h *Handler) memberships() *relationship.Toggle {
	return relationship.NewMemberships(h.Store, h.Log, h.Notifier)
}

type learnerListResponse struct {
	Clubs  []models.Club `json:"clubs"`
	Joined []string      `json:"joined_ids"`
}

// ServeLearnerList handles GET /learner/dashboard/clubs: active clubs
// newest first, plus the ids the caller already joined.
func (h *Handler) ServeLearnerList(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list clubs")
	defer cancel()

	c := collection.NewClubs(h.Store, profile, h.Log, h.Notifier)
	if err := c.Fetch(ctx, collection.Public); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	joined, err := h.memberships().Related(ctx, profile.ID)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	shared.JSON(w, http.StatusOK, learnerListResponse{Clubs: c.Items(), Joined: joined})
}

// HandleJoin handles POST /learner/dashboard/clubs/{id}/join.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "join club")
	defer cancel()

	err := h.memberships().Join(ctx, id, profile.ID)
	var syncErr *relationship.CounterSyncError
	if errors.As(err, &syncErr) {
		h.Log.Warn("member count stale", zap.String("club_id", id), zap.Error(syncErr))
		err = nil
	}
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "joined"})
}

// HandleLeave handles POST /learner/dashboard/clubs/{id}/leave.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "leave club")
	defer cancel()

	err := h.memberships().Leave(ctx, id, profile.ID)
	var syncErr *relationship.CounterSyncError
	if errors.As(err, &syncErr) {
		h.Log.Warn("member count stale", zap.String("club_id", id), zap.Error(syncErr))
		err = nil
	}
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "left"})
}

// ServeMine handles GET /contributor/dashboard/clubs.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list own clubs")
	defer cancel()

	c := collection.NewClubs(h.Store, profile, h.Log, h.Notifier)
	if err := c.Fetch(ctx, collection.Mine); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"clubs": c.Items()})
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	MeetingDay  string `json:"meeting_day"`
	ImageURL    string `json:"image_url"`
}

// HandleCreate handles POST /contributor/dashboard/clubs.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())

	var req createRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	if req.Name == "" {
		shared.Error(w, h.Log, faults.New(faults.Conflict, "name is required"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create club")
	defer cancel()

	c := collection.NewClubs(h.Store, profile, h.Log, h.Notifier)
	created, err := c.Create(ctx, models.Club{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		MeetingDay:  req.MeetingDay,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusCreated, created)
}

type updateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	MeetingDay  *string `json:"meeting_day,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (req updateRequest) patch() records.Filter {
	p := records.Filter{}
	if req.Name != nil {
		p["name"] = *req.Name
	}
	if req.Description != nil {
		p["description"] = *req.Description
	}
	if req.Category != nil {
		p["category"] = *req.Category
	}
	if req.MeetingDay != nil {
		p["meeting_day"] = *req.MeetingDay
	}
	if req.ImageURL != nil {
		p["image_url"] = *req.ImageURL
	}
	if req.IsActive != nil {
		p["is_active"] = *req.IsActive
	}
	return p
}

// HandleUpdate handles PUT /contributor/dashboard/clubs/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())
	id := chi.URLParam(r, "id")

	var req updateRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update club")
	defer cancel()

	c := collection.NewClubs(h.Store, profile, h.Log, h.Notifier)
	updated, err := c.Update(ctx, id, req.patch())
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /contributor/dashboard/clubs/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	profile, _ := auth.ProfileFrom(r.Context())
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete club")
	defer cancel()

	c := collection.NewClubs(h.Store, profile, h.Log, h.Notifier)
	if err := c.Delete(ctx, id); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
