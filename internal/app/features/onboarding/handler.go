// internal/app/features/onboarding/handler.go
package onboarding

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/app/features/shared"
	"github.com/linkuphq/linkup/internal/app/store/profiles"
	"github.com/linkuphq/linkup/internal/app/system/accessgate"
	"github.com/linkuphq/linkup/internal/app/system/auth"
	"github.com/linkuphq/linkup/internal/app/system/faults"
	"github.com/linkuphq/linkup/internal/app/system/timeouts"
	"github.com/linkuphq/linkup/internal/domain/models"
)

// Handler serves the role/purpose selection step new accounts complete
// before reaching a dashboard.
type Handler struct {
	Profiles *profiles.Store
	Log      *zap.Logger
}

func NewHandler(profileStore *profiles.Store, logger *zap.Logger) *Handler {
	return &Handler{Profiles: profileStore, Log: logger}
}

type stateResponse struct {
	Profile  models.Profile   `json:"profile"`
	Roles    []models.Role    `json:"roles"`
	Purposes []models.Purpose `json:"purposes"`
}

type completeRequest struct {
	Role    models.Role    `json:"role"`
	Purpose models.Purpose `json:"purpose,omitempty"`
}

type completeResponse struct {
	Profile  models.Profile `json:"profile"`
	Redirect string         `json:"redirect"`
}

// ServeState returns the current profile alongside the selectable roles
// and contributor purposes. Admin is excluded: it is never
// self-assignable.
func (h *Handler) ServeState(w http.ResponseWriter, r *http.Request) {
	profile, ok := auth.ProfileFrom(r.Context())
	if !ok {
		shared.Error(w, h.Log, faults.New(faults.Auth, "not signed in"))
		return
	}
	shared.JSON(w, http.StatusOK, stateResponse{
		Profile:  profile,
		Roles:    []models.Role{models.RoleLearner, models.RoleContributor},
		Purposes: models.Purposes,
	})
}

// HandleComplete assigns the chosen role (and purpose, for
// contributors) and tells the client which dashboard to go to.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	profile, ok := auth.ProfileFrom(r.Context())
	if !ok {
		shared.Error(w, h.Log, faults.New(faults.Auth, "not signed in"))
		return
	}

	var req completeRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "complete onboarding")
	defer cancel()

	updated, err := h.Profiles.CompleteOnboarding(ctx, profile.ID, req.Role, req.Purpose)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	action := accessgate.Decide(true, updated, accessgate.DispatchPath)
	redirect := accessgate.DispatchPath
	if !action.Allow {
		redirect = action.RedirectTo
	}

	shared.JSON(w, http.StatusOK, completeResponse{Profile: updated, Redirect: redirect})
}
