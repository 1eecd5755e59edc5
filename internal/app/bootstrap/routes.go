// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	clubsfeature "github.com/linkuphq/linkup/internal/app/features/clubs"
	dashboardfeature "github.com/linkuphq/linkup/internal/app/features/dashboard"
	eventsfeature "github.com/linkuphq/linkup/internal/app/features/events"
	healthfeature "github.com/linkuphq/linkup/internal/app/features/health"
	internshipsfeature "github.com/linkuphq/linkup/internal/app/features/internships"
	loginfeature "github.com/linkuphq/linkup/internal/app/features/login"
	logoutfeature "github.com/linkuphq/linkup/internal/app/features/logout"
	mentorshipsfeature "github.com/linkuphq/linkup/internal/app/features/mentorships"
	onboardingfeature "github.com/linkuphq/linkup/internal/app/features/onboarding"
	profilefeature "github.com/linkuphq/linkup/internal/app/features/profile"
	userinfofeature "github.com/linkuphq/linkup/internal/app/features/userinfo"
	"github.com/linkuphq/linkup/internal/app/store/profiles"
	"github.com/linkuphq/linkup/internal/app/system/accessgate"
	"github.com/linkuphq/linkup/internal/app/system/auth"
	"github.com/linkuphq/linkup/internal/app/system/notify"
	"github.com/linkuphq/linkup/internal/app/system/uploads"
	"github.com/linkuphq/linkup/internal/domain/models"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: database clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// LinkUP mounts the credential endpoints and health check openly, then
// applies two middleware layers to everything else: LoadSessionProfile
// revalidates the session cookie and resolves the caller's profile into
// the request context, and the access gate decides per-path whether the
// caller may proceed or gets redirected (to sign-in, onboarding, or
// their own dashboard root).
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	provider := auth.NewLocalProvider(deps.Records, appCfg.JWTSecret, logger)
	profileStore := profiles.New(deps.Records, logger)
	notifier := notify.NewLogger(logger)
	storage := &uploads.Local{Dir: appCfg.StorageLocalPath, BaseURL: appCfg.StorageLocalURL}

	r := chi.NewRouter()

	// Global auth middleware: resolves the session cookie into a profile
	// in the request context. Unauthenticated requests pass through; the
	// access gate below decides what that means per route.
	r.Use(auth.LoadSessionProfile(provider, profileStore, logger))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Uploaded profile pictures, served straight from local storage with
	// pre-compressed file support (gzip/brotli)
	r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))

	// Credential endpoints are reachable without a session.
	loginfeature.MountRoutes(r, loginfeature.NewHandler(provider, profileStore, logger))
	logoutfeature.MountRoutes(r, logoutfeature.NewHandler(provider, logger))

	// Identity info endpoint answers for both signed-in and anonymous
	// callers, so it stays outside the gate.
	userinfofeature.MountRoutes(r, userinfofeature.NewHandler())

	// Everything else sits behind the access gate: onboarding, the
	// role-scoped dashboard subtrees, and the profile endpoints.
	current := func(req *http.Request) (bool, models.Profile, error) {
		p, ok := auth.ProfileFrom(req.Context())
		return ok, p, nil
	}

	r.Group(func(gated chi.Router) {
		gated.Use(accessgate.Middleware(current, logger))

		onboardingfeature.MountRoutes(gated, onboardingfeature.NewHandler(profileStore, logger))
		dashboardfeature.MountRoutes(gated, dashboardfeature.NewHandler(deps.Records, logger, notifier))

		eventsfeature.MountRoutes(gated, eventsfeature.NewHandler(deps.Records, logger, notifier))
		clubsfeature.MountRoutes(gated, clubsfeature.NewHandler(deps.Records, logger, notifier))
		internshipsfeature.MountRoutes(gated, internshipsfeature.NewHandler(deps.Records, logger, notifier))
		mentorshipsfeature.MountRoutes(gated, mentorshipsfeature.NewHandler(deps.Records, logger, notifier))

		profilefeature.MountRoutes(gated, profilefeature.NewHandler(profileStore, deps.Records, storage, logger))
	})

	return r, nil
}
