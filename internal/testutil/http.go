package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/google/uuid"

	"github.com/linkuphq/linkup/internal/app/system/auth"
	"github.com/linkuphq/linkup/internal/domain/models"
)

// LearnerProfile returns an onboarded learner profile.
func LearnerProfile() models.Profile {
	return models.Profile{
		ID:       uuid.NewString(),
		FullName: "Test Learner",
		Email:    "learner@test.com",
		Role:     models.RoleLearner,
	}
}

// ContributorProfile returns an onboarded contributor profile with the
// given purpose.
func ContributorProfile(purpose models.Purpose) models.Profile {
	return models.Profile{
		ID:       uuid.NewString(),
		FullName: "Test Contributor",
		Email:    "contributor@test.com",
		Role:     models.RoleContributor,
		Purpose:  purpose,
	}
}

// AdminProfile returns an admin profile.
func AdminProfile() models.Profile {
	return models.Profile{
		ID:       uuid.NewString(),
		FullName: "Test Admin",
		Email:    "admin@test.com",
		Role:     models.RoleAdmin,
	}
}

// UnonboardedProfile returns a profile that has not chosen a role yet.
func UnonboardedProfile() models.Profile {
	return models.Profile{
		ID:       uuid.NewString(),
		FullName: "Test Newcomer",
		Email:    "new@test.com",
	}
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a profile in
// context, bypassing the session middleware.
func NewAuthenticatedRequest(method, target string, p models.Profile) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return auth.WithTestProfile(req, p)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a redirect to the expected location.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, expectedLocation string) {
	if r.Code != http.StatusSeeOther && r.Code != http.StatusFound && r.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect status, got %d", r.Code)
	}
	location := r.Header().Get("Location")
	if location != expectedLocation {
		t.Errorf("redirect location: got %q, want %q", location, expectedLocation)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
