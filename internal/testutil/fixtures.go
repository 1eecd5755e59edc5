package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"

	"github.com/linkuphq/linkup/internal/app/store/records"
	"github.com/linkuphq/linkup/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// TestContext returns a context with a deadline suitable for store
// operations in tests. The context is cancelled when the test ends.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// NewStore creates an in-memory record store carrying the same unique
// indexes EnsureSchema creates in mongo, so duplicate behavior matches
// production.
func NewStore(t *testing.T) *records.Memory {
	t.Helper()
	return records.NewMemory(
		records.WithUniqueIndex("profiles", "email"),
		records.WithUniqueIndex("auth_users", "email"),
		records.WithUniqueIndex("event_registrations", "event_id", "user_id"),
		records.WithUniqueIndex("club_members", "club_id", "user_id"),
		records.WithUniqueIndex("internship_applications", "internship_id", "user_id"),
	)
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	store records.Store
	t     *testing.T
}

// NewFixtures creates a new Fixtures instance for the given store.
func NewFixtures(t *testing.T, store records.Store) *Fixtures {
	t.Helper()
	return &Fixtures{store: store, t: t}
}

// Store returns the underlying store for direct access in tests.
func (f *Fixtures) Store() records.Store {
	return f.store
}

// CreateProfile creates a test profile with the given role and purpose.
// Returns the created profile with its generated ID.
func (f *Fixtures) CreateProfile(ctx context.Context, fullName, email string, role models.Role, purpose models.Purpose) models.Profile {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Profile{
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Role:       role,
		Purpose:    purpose,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var created models.Profile
	if err := f.store.Insert(ctx, "profiles", p, &created); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
	return created
}

// CreateLearner creates a learner profile.
func (f *Fixtures) CreateLearner(ctx context.Context, fullName, email string) models.Profile {
	f.t.Helper()
	return f.CreateProfile(ctx, fullName, email, models.RoleLearner, models.PurposeUnset)
}

// CreateContributor creates a contributor profile with the given purpose.
func (f *Fixtures) CreateContributor(ctx context.Context, fullName, email string, purpose models.Purpose) models.Profile {
	f.t.Helper()
	return f.CreateProfile(ctx, fullName, email, models.RoleContributor, purpose)
}

// CreateEvent creates an active test event owned by contributorID.
func (f *Fixtures) CreateEvent(ctx context.Context, contributorID, title string, maxAttendees int, date time.Time) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	e := models.Event{
		ContributorID: contributorID,
		Title:         title,
		TitleCI:       text.Fold(title),
		Description:   "<p>Test event</p>",
		Location:      "Test Hall",
		Category:      "general",
		Organizer:     "Test Org",
		Date:          date,
		MaxAttendees:  maxAttendees,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var created models.Event
	if err := f.store.Insert(ctx, "events", e, &created); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return created
}

// CreateClub creates an active test club owned by contributorID.
func (f *Fixtures) CreateClub(ctx context.Context, contributorID, name string) models.Club {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Club{
		ContributorID: contributorID,
		Name:          name,
		NameCI:        text.Fold(name),
		Description:   "<p>Test club</p>",
		Category:      "general",
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var created models.Club
	if err := f.store.Insert(ctx, "clubs", c, &created); err != nil {
		f.t.Fatalf("failed to create test club: %v", err)
	}
	return created
}

// CreateInternship creates an active test internship owned by
// contributorID with the given application deadline.
func (f *Fixtures) CreateInternship(ctx context.Context, contributorID, title string, deadline time.Time) models.Internship {
	f.t.Helper()

	now := time.Now().UTC()
	i := models.Internship{
		ContributorID: contributorID,
		Title:         title,
		TitleCI:       text.Fold(title),
		Company:       "Test Co",
		Description:   "<p>Test internship</p>",
		Location:      "Remote",
		Deadline:      deadline,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var created models.Internship
	if err := f.store.Insert(ctx, "internships", i, &created); err != nil {
		f.t.Fatalf("failed to create test internship: %v", err)
	}
	return created
}

// CreateMentorship creates an active test mentorship owned by
// contributorID.
func (f *Fixtures) CreateMentorship(ctx context.Context, contributorID, title string) models.Mentorship {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Mentorship{
		ContributorID: contributorID,
		Title:         title,
		TitleCI:       text.Fold(title),
		Expertise:     "testing",
		Description:   "<p>Test mentorship</p>",
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var created models.Mentorship
	if err := f.store.Insert(ctx, "mentorships", m, &created); err != nil {
		f.t.Fatalf("failed to create test mentorship: %v", err)
	}
	return created
}
