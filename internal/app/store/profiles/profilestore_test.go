package profiles_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/app/store/profiles"
	"github.com/linkuphq/linkup/internal/app/system/faults"
	"github.com/linkuphq/linkup/internal/domain/models"
	"github.com/linkuphq/linkup/internal/testutil"
)

func TestCreateAndResolve(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := profiles.New(testutil.NewStore(t), zap.NewNop())

	created, err := store.Create(ctx, "u1", "Émile Aubert", "emile@test.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != "u1" {
		t.Errorf("id: got %q, want %q", created.ID, "u1")
	}
	if created.Role != models.RoleUnset {
		t.Errorf("role: got %q, want unset", created.Role)
	}
	if created.FullNameCI != "emile aubert" {
		t.Errorf("fullname_ci: got %q, want %q", created.FullNameCI, "emile aubert")
	}

	resolved, err := store.Resolve(ctx, "u1")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.Email != "emile@test.com" {
		t.Errorf("email: got %q, want %q", resolved.Email, "emile@test.com")
	}
}

// A signed-in identity without a profile row is a brand-new user headed
// for onboarding, not an error.
func TestResolve_MissingRowIsUnonboarded(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := profiles.New(testutil.NewStore(t), zap.NewNop())

	p, err := store.Resolve(ctx, "unknown-user")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if p.ID != "unknown-user" {
		t.Errorf("id: got %q, want %q", p.ID, "unknown-user")
	}
	if p.Role != models.RoleUnset {
		t.Errorf("role: got %q, want unset", p.Role)
	}
	if p.Onboarded() {
		t.Error("expected profile to not be onboarded")
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := profiles.New(testutil.NewStore(t), zap.NewNop())

	if _, err := store.Create(ctx, "u1", "First", "same@test.com"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, "u2", "Second", "same@test.com")
	if !faults.IsKind(err, faults.Conflict) {
		t.Fatalf("expected Conflict for duplicate email, got %v", err)
	}
}

func TestCompleteOnboarding_Learner(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := profiles.New(testutil.NewStore(t), zap.NewNop())

	if _, err := store.Create(ctx, "u1", "Lena", "lena@test.com"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := store.CompleteOnboarding(ctx, "u1", models.RoleLearner, models.PurposeUnset)
	if err != nil {
		t.Fatalf("CompleteOnboarding failed: %v", err)
	}
	if updated.Role != models.RoleLearner {
		t.Errorf("role: got %q, want %q", updated.Role, models.RoleLearner)
	}
	if !updated.Onboarded() {
		t.Error("expected profile to be onboarded")
	}
}

func TestCompleteOnboarding_ContributorRequiresPurpose(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := profiles.New(testutil.NewStore(t), zap.NewNop())

	if _, err := store.Create(ctx, "u1", "Cory", "cory@test.com"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := store.CompleteOnboarding(ctx, "u1", models.RoleContributor, models.PurposeUnset)
	if !faults.IsKind(err, faults.Conflict) {
		t.Fatalf("expected Conflict for contributor without purpose, got %v", err)
	}

	updated, err := store.CompleteOnboarding(ctx, "u1", models.RoleContributor, models.PurposeMentorship)
	if err != nil {
		t.Fatalf("CompleteOnboarding failed: %v", err)
	}
	if updated.Purpose != models.PurposeMentorship {
		t.Errorf("purpose: got %q, want %q", updated.Purpose, models.PurposeMentorship)
	}
}

func TestCompleteOnboarding_LearnerRejectsPurpose(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := profiles.New(testutil.NewStore(t), zap.NewNop())

	if _, err := store.Create(ctx, "u1", "Lena", "lena@test.com"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := store.CompleteOnboarding(ctx, "u1", models.RoleLearner, models.PurposePostEvents)
	if !faults.IsKind(err, faults.Conflict) {
		t.Fatalf("expected Conflict for learner with purpose, got %v", err)
	}
}

func TestCompleteOnboarding_AdminNotSelfAssignable(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := profiles.New(testutil.NewStore(t), zap.NewNop())

	if _, err := store.Create(ctx, "u1", "Eve", "eve@test.com"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := store.CompleteOnboarding(ctx, "u1", models.RoleAdmin, models.PurposeUnset)
	if !faults.IsKind(err, faults.Permission) {
		t.Fatalf("expected Permission for self-assigned admin, got %v", err)
	}
}

func TestRename(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := profiles.New(testutil.NewStore(t), zap.NewNop())

	if _, err := store.Create(ctx, "u1", "Before Name", "u1@test.com"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := store.Rename(ctx, "u1", "After Name")
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if updated.FullName != "After Name" {
		t.Errorf("fullname: got %q, want %q", updated.FullName, "After Name")
	}
	if updated.FullNameCI != "after name" {
		t.Errorf("fullname_ci: got %q, want %q", updated.FullNameCI, "after name")
	}

	if _, err := store.Rename(ctx, "missing", "X"); !faults.IsKind(err, faults.NotFound) {
		t.Fatalf("expected NotFound for missing profile, got %v", err)
	}
}

func TestSetPicture(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := profiles.New(testutil.NewStore(t), zap.NewNop())

	if _, err := store.Create(ctx, "u1", "Lena", "lena@test.com"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := store.SetPicture(ctx, "u1", "/uploads/pictures/2026/08/abc-photo.png")
	if err != nil {
		t.Fatalf("SetPicture failed: %v", err)
	}
	if updated.ProfilePicture != "/uploads/pictures/2026/08/abc-photo.png" {
		t.Errorf("profile_picture: got %q", updated.ProfilePicture)
	}
}
