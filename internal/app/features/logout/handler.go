// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/app/features/shared"
	"github.com/linkuphq/linkup/internal/app/system/accessgate"
	"github.com/linkuphq/linkup/internal/app/system/auth"
)

// Handler signs the user out and clears the session cookie.
type Handler struct {
	Provider *auth.LocalProvider
	Log      *zap.Logger
}

func NewHandler(provider *auth.LocalProvider, logger *zap.Logger) *Handler {
	return &Handler{Provider: provider, Log: logger}
}

// HandleLogout is idempotent: logging out while signed out succeeds.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Provider.SignOut(r.Context()); err != nil {
		h.Log.Warn("sign-out failed", zap.Error(err))
	}
	if err := auth.ClearSession(w, r); err != nil {
		h.Log.Warn("clear session failed", zap.Error(err))
	}
	shared.JSON(w, http.StatusOK, map[string]string{"redirect": accessgate.SignInPath})
}
