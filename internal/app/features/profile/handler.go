// internal/app/features/profile/handler.go
package profile

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/app/features/shared"
	"github.com/linkuphq/linkup/internal/app/store/profiles"
	"github.com/linkuphq/linkup/internal/app/store/records"
	"github.com/linkuphq/linkup/internal/app/system/auth"
	"github.com/linkuphq/linkup/internal/app/system/faults"
	"github.com/linkuphq/linkup/internal/app/system/timeouts"
	"github.com/linkuphq/linkup/internal/app/system/uploads"
)

// maxPictureBytes bounds profile picture uploads.
const maxPictureBytes = 5 << 20

// Handler serves the signed-in user's profile.
type Handler struct {
	Profiles *profiles.Store
	Records  records.Store
	Storage  uploads.Storage
	Log      *zap.Logger
}

func NewHandler(profileStore *profiles.Store, store records.Store, storage uploads.Storage, logger *zap.Logger) *Handler {
	return &Handler{Profiles: profileStore, Records: store, Storage: storage, Log: logger}
}

// ServeProfile handles GET /api/profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.ProfileFrom(r.Context())
	if !ok {
		shared.Error(w, h.Log, faults.New(faults.Auth, "not signed in"))
		return
	}
	shared.JSON(w, http.StatusOK, p)
}

type nameRequest struct {
	FullName string `json:"fullname"`
}

// HandleUpdateName handles POST /api/profile/name.
func (h *Handler) HandleUpdateName(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.ProfileFrom(r.Context())
	if !ok {
		shared.Error(w, h.Log, faults.New(faults.Auth, "not signed in"))
		return
	}

	var req nameRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	if req.FullName == "" {
		shared.Error(w, h.Log, faults.New(faults.Conflict, "full name is required"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update name")
	defer cancel()

	updated, err := h.Profiles.Rename(ctx, p.ID, req.FullName)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, updated)
}

// HandlePicture handles POST /api/profile/picture (multipart form,
// field "picture"). A failed upload leaves the existing picture alone.
func (h *Handler) HandlePicture(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.ProfileFrom(r.Context())
	if !ok {
		shared.Error(w, h.Log, faults.New(faults.Auth, "not signed in"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPictureBytes)
	file, header, err := r.FormFile("picture")
	if err != nil {
		shared.Error(w, h.Log, faults.Wrap(faults.Conflict, "picture file is required", err))
		return
	}
	defer file.Close()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "upload picture")
	defer cancel()

	url, err := uploads.Save(ctx, h.Storage, "pictures", header.Filename, file, header.Header.Get("Content-Type"))
	if err != nil {
		shared.Error(w, h.Log, faults.Wrap(faults.Transient, "could not store picture", err))
		return
	}

	updated, err := h.Profiles.SetPicture(ctx, p.ID, url)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, updated)
}
