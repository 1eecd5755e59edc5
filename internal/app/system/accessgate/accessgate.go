// internal/app/system/accessgate/accessgate.go

// Package accessgate decides, for every route evaluation, whether to
// render the requested subtree or issue exactly one redirect. The
// decision is a pure function of (session presence, profile, path), so
// the whole authorization matrix is testable without rendering anything.
//
// Redirect targets are loop-free by construction: sign-in and onboarding
// are reachable in the states that redirect to them, and dashboard roots
// never consult the contributor section check.
package accessgate

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/app/system/auth"
	"github.com/linkuphq/linkup/internal/domain/models"
)

// Route anchors. Dashboard roots are the redirect targets for role
// mismatches and must stay valid for their role unconditionally.
const (
	SignInPath      = "/login"
	OnboardingPath  = "/onboarding"
	DispatchPath    = "/dashboard"
	LearnerRoot     = "/learner/dashboard"
	ContributorRoot = "/contributor/dashboard"
	AdminRoot       = "/admin/dashboard"
)

// State is the authorization state computed for one evaluation. States
// are never stored; compute them fresh from session and profile.
type State int

const (
	Unauthenticated State = iota
	AuthenticatedNoRole
	AuthenticatedLearner
	AuthenticatedContributor
	AuthenticatedAdmin
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case AuthenticatedNoRole:
		return "authenticated_no_role"
	case AuthenticatedLearner:
		return "learner"
	case AuthenticatedContributor:
		return "contributor"
	case AuthenticatedAdmin:
		return "admin"
	}
	return "unknown"
}

// StateOf derives the authorization state from session presence and the
// resolved profile.
func StateOf(signedIn bool, profile models.Profile) State {
	if !signedIn {
		return Unauthenticated
	}
	switch profile.Role {
	case models.RoleLearner:
		return AuthenticatedLearner
	case models.RoleContributor:
		return AuthenticatedContributor
	case models.RoleAdmin:
		return AuthenticatedAdmin
	}
	return AuthenticatedNoRole
}

// Action is the terminal outcome of an evaluation: render, or exactly
// one redirect.
type Action struct {
	Allow      bool
	RedirectTo string
}

func render() Action { return Action{Allow: true} }

func redirect(target string) Action { return Action{RedirectTo: target} }

// Decide evaluates a path against the authorization state machine.
// Resolver failures must be mapped to signedIn=false by the caller
// (fail safe, not fail open).
func Decide(signedIn bool, profile models.Profile, path string) Action {
	path = normalizePath(path)

	if !isProtected(path) {
		return render()
	}

	state := StateOf(signedIn, profile)

	if state == Unauthenticated {
		return redirect(signInTarget(path))
	}

	if state == AuthenticatedNoRole {
		if path == OnboardingPath {
			return render()
		}
		return redirect(OnboardingPath)
	}

	root := dashboardRoot(profile.Role)

	// Onboarding is complete; the dispatch and onboarding routes both
	// land on the role's dashboard root.
	if path == OnboardingPath || path == DispatchPath {
		return redirect(root)
	}

	// Wrong subtree for the role: back to the caller's own root, which
	// is unconditionally valid for that role.
	if required := subtreeRole(path); required != profile.Role {
		return redirect(root)
	}

	// Contributor sub-paths are restricted to the purpose's section.
	// The dashboard root itself never consults this check.
	if state == AuthenticatedContributor {
		section := sectionOf(path, ContributorRoot)
		if section != "" {
			allowed, ok := profile.Purpose.Section()
			if !ok || models.Section(section) != allowed {
				return redirect(ContributorRoot)
			}
		}
	}

	return render()
}

// NavLink is a navigation entry the current profile may reach.
type NavLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

var sectionLabels = map[models.Section]string{
	models.SectionEvents:     "Events",
	models.SectionClubs:      "Clubs",
	models.SectionInternship: "Internships",
	models.SectionMentorship: "Mentorship",
}

// NavLinks returns exactly the entries the profile may navigate to.
// Contributors get their dashboard root plus the single section their
// purpose permits; learners browse every section.
func NavLinks(profile models.Profile) []NavLink {
	switch profile.Role {
	case models.RoleLearner:
		links := []NavLink{{Label: "Dashboard", Path: LearnerRoot}}
		for _, s := range models.Sections {
			links = append(links, NavLink{
				Label: sectionLabels[s],
				Path:  LearnerRoot + "/" + string(s),
			})
		}
		return links
	case models.RoleContributor:
		links := []NavLink{{Label: "Dashboard", Path: ContributorRoot}}
		if s, ok := profile.Purpose.Section(); ok {
			links = append(links, NavLink{
				Label: sectionLabels[s],
				Path:  ContributorRoot + "/" + string(s),
			})
		}
		return links
	case models.RoleAdmin:
		return []NavLink{{Label: "Dashboard", Path: AdminRoot}}
	}
	return nil
}

// Gate binds the decision function to a session store for library
// consumers that hold one identity at a time (the UI shell).
type Gate struct {
	sessions *auth.SessionStore
	log      *zap.Logger
}

func New(sessions *auth.SessionStore, log *zap.Logger) *Gate {
	return &Gate{sessions: sessions, log: log}
}

// Evaluate runs one route evaluation against the current session. Any
// profile-resolution error is treated as unauthenticated.
func (g *Gate) Evaluate(ctx context.Context, path string) Action {
	sess := g.sessions.Current()
	if sess == nil {
		return Decide(false, models.Profile{}, path)
	}
	profile, err := g.sessions.Profile(ctx)
	if err != nil {
		g.log.Warn("profile resolution failed; treating as unauthenticated",
			zap.String("path", path), zap.Error(err))
		return Decide(false, models.Profile{}, path)
	}
	return Decide(true, profile, path)
}

// helpers

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

var protectedPrefixes = []string{
	DispatchPath,
	OnboardingPath,
	"/learner",
	"/contributor",
	"/admin",
}

func isProtected(path string) bool {
	for _, p := range protectedPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func signInTarget(path string) string {
	return SignInPath + "?return=" + url.QueryEscape(path)
}

func dashboardRoot(role models.Role) string {
	switch role {
	case models.RoleContributor:
		return ContributorRoot
	case models.RoleAdmin:
		return AdminRoot
	}
	return LearnerRoot
}

// subtreeRole maps a protected path to the role its subtree requires.
func subtreeRole(path string) models.Role {
	switch {
	case path == LearnerRoot || strings.HasPrefix(path, LearnerRoot+"/") || path == "/learner" || strings.HasPrefix(path, "/learner/"):
		return models.RoleLearner
	case path == ContributorRoot || strings.HasPrefix(path, ContributorRoot+"/") || path == "/contributor" || strings.HasPrefix(path, "/contributor/"):
		return models.RoleContributor
	case path == AdminRoot || strings.HasPrefix(path, AdminRoot+"/") || path == "/admin" || strings.HasPrefix(path, "/admin/"):
		return models.RoleAdmin
	}
	return models.RoleUnset
}

// sectionOf extracts the first path segment after root, or "" when the
// path is the root itself.
func sectionOf(path, root string) string {
	rest := strings.TrimPrefix(path, root)
	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
		return ""
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
