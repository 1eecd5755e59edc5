// internal/app/features/login/handler.go
package login

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/app/features/shared"
	"github.com/linkuphq/linkup/internal/app/store/profiles"
	"github.com/linkuphq/linkup/internal/app/system/accessgate"
	"github.com/linkuphq/linkup/internal/app/system/auth"
	"github.com/linkuphq/linkup/internal/app/system/faults"
	"github.com/linkuphq/linkup/internal/app/system/timeouts"
)

// Handler serves credential sign-up and sign-in.
type Handler struct {
	Provider *auth.LocalProvider
	Profiles *profiles.Store
	Log      *zap.Logger
}

func NewHandler(provider *auth.LocalProvider, profileStore *profiles.Store, logger *zap.Logger) *Handler {
	return &Handler{Provider: provider, Profiles: profileStore, Log: logger}
}

type signupRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID   string `json:"user_id"`
	Redirect string `json:"redirect"`
}

// HandleSignup creates the credential row and its matching profile,
// then signs the new user in. New accounts always land on onboarding.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	if req.FullName == "" {
		shared.Error(w, h.Log, faults.New(faults.Conflict, "full name is required"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "signup")
	defer cancel()

	userID, err := h.Provider.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	if _, err := h.Profiles.Create(ctx, userID, req.FullName, req.Email); err != nil {
		// The credential row exists; Resolve treats a missing profile
		// row as needs-onboarding, so the account still works.
		h.Log.Warn("profile create failed after signup", zap.String("user_id", userID), zap.Error(err))
	}

	sess, err := h.Provider.SignIn(ctx, auth.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	if err := auth.Establish(w, r, sess.UserID, sess.Token); err != nil {
		shared.Error(w, h.Log, faults.Wrap(faults.Unknown, "establish session", err))
		return
	}

	shared.JSON(w, http.StatusCreated, sessionResponse{
		UserID:   sess.UserID,
		Redirect: accessgate.OnboardingPath,
	})
}

// HandleLogin verifies credentials and writes the session cookie. The
// redirect in the response is where the client navigates next:
// onboarding for profiles without a role, the role's dashboard root
// otherwise.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "login")
	defer cancel()

	sess, err := h.Provider.SignIn(ctx, auth.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	if err := auth.Establish(w, r, sess.UserID, sess.Token); err != nil {
		shared.Error(w, h.Log, faults.Wrap(faults.Unknown, "establish session", err))
		return
	}

	profile, err := h.Profiles.Resolve(ctx, sess.UserID)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	action := accessgate.Decide(true, profile, accessgate.DispatchPath)
	redirect := accessgate.DispatchPath
	if !action.Allow {
		redirect = action.RedirectTo
	}

	shared.JSON(w, http.StatusOK, sessionResponse{
		UserID:   sess.UserID,
		Redirect: redirect,
	})
}
