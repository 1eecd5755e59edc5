package relationship_test

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/app/relationship"
	"github.com/linkuphq/linkup/internal/app/store/records"
	"github.com/linkuphq/linkup/internal/app/system/faults"
	"github.com/linkuphq/linkup/internal/app/system/notify"
	"github.com/linkuphq/linkup/internal/domain/models"
	"github.com/linkuphq/linkup/internal/testutil"
)

func applicantCount(t *testing.T, store records.Store, internshipID string) int {
	t.Helper()
	ctx := testutil.TestContext(t)
	var in models.Internship
	if err := store.QueryOne(ctx, "internships", records.Filter{"_id": internshipID}, &in); err != nil {
		t.Fatalf("failed to load internship: %v", err)
	}
	return in.Applicants
}

func TestApply_CreatesPendingApplication(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	contributor := fx.CreateContributor(ctx, "Cory", "cory@test.com", models.PurposePostInternship)
	learner := fx.CreateLearner(ctx, "Lena", "lena@test.com")
	internship := fx.CreateInternship(ctx, contributor.ID, "Summer SWE", time.Now().Add(14*24*time.Hour))

	apps := relationship.NewApplications(store, zap.NewNop(), notify.Discard{})

	app, err := apps.Apply(ctx, internship.ID, learner.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if app.Status != models.ApplicationPending {
		t.Errorf("status: got %q, want %q", app.Status, models.ApplicationPending)
	}
	if app.UserID != learner.ID {
		t.Errorf("user_id: got %q, want %q", app.UserID, learner.ID)
	}
	if app.ApplicationDate.IsZero() {
		t.Error("expected application_date to be set")
	}
	if got := applicantCount(t, store, internship.ID); got != 1 {
		t.Errorf("applicants: got %d, want 1", got)
	}
}

func TestApply_DuplicateRejected(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	contributor := fx.CreateContributor(ctx, "Cory", "cory@test.com", models.PurposePostInternship)
	learner := fx.CreateLearner(ctx, "Lena", "lena@test.com")
	internship := fx.CreateInternship(ctx, contributor.ID, "Summer SWE", time.Now().Add(14*24*time.Hour))

	apps := relationship.NewApplications(store, zap.NewNop(), notify.Discard{})

	if _, err := apps.Apply(ctx, internship.ID, learner.ID); err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}
	_, err := apps.Apply(ctx, internship.ID, learner.ID)
	if !errors.Is(err, relationship.ErrAlreadyRelated) {
		t.Fatalf("expected ErrAlreadyRelated, got %v", err)
	}
	if got := applicantCount(t, store, internship.ID); got != 1 {
		t.Errorf("applicants: got %d, want 1", got)
	}
}

func TestApply_DeadlinePassed(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	contributor := fx.CreateContributor(ctx, "Cory", "cory@test.com", models.PurposePostInternship)
	learner := fx.CreateLearner(ctx, "Lena", "lena@test.com")
	internship := fx.CreateInternship(ctx, contributor.ID, "Expired Role", time.Now().Add(-24*time.Hour))

	apps := relationship.NewApplications(store, zap.NewNop(), notify.Discard{})

	_, err := apps.Apply(ctx, internship.ID, learner.ID)
	if !errors.Is(err, relationship.ErrDeadlinePassed) {
		t.Fatalf("expected ErrDeadlinePassed, got %v", err)
	}
	if !faults.IsKind(err, faults.Conflict) {
		t.Errorf("expected Conflict kind, got %v", faults.KindOf(err))
	}
}

func TestWithdraw_PendingOnly(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	contributor := fx.CreateContributor(ctx, "Cory", "cory@test.com", models.PurposePostInternship)
	learner := fx.CreateLearner(ctx, "Lena", "lena@test.com")
	internship := fx.CreateInternship(ctx, contributor.ID, "Summer SWE", time.Now().Add(14*24*time.Hour))

	apps := relationship.NewApplications(store, zap.NewNop(), notify.Discard{})

	app, err := apps.Apply(ctx, internship.ID, learner.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// Accepted applications cannot be withdrawn.
	if _, err := apps.UpdateStatus(ctx, app.ID, models.ApplicationAccepted, contributor); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	err = apps.Withdraw(ctx, internship.ID, learner.ID)
	if !errors.Is(err, relationship.ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}

	// The application row stays and the applicant count holds.
	if got := applicantCount(t, store, internship.ID); got != 1 {
		t.Errorf("applicants: got %d, want 1", got)
	}
}

func TestWithdraw_RemovesPendingApplication(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	contributor := fx.CreateContributor(ctx, "Cory", "cory@test.com", models.PurposePostInternship)
	learner := fx.CreateLearner(ctx, "Lena", "lena@test.com")
	internship := fx.CreateInternship(ctx, contributor.ID, "Summer SWE", time.Now().Add(14*24*time.Hour))

	apps := relationship.NewApplications(store, zap.NewNop(), notify.Discard{})

	if _, err := apps.Apply(ctx, internship.ID, learner.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := apps.Withdraw(ctx, internship.ID, learner.ID); err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if got := applicantCount(t, store, internship.ID); got != 0 {
		t.Errorf("applicants: got %d, want 0", got)
	}

	// Re-applying after withdrawal is allowed.
	if _, err := apps.Apply(ctx, internship.ID, learner.ID); err != nil {
		t.Fatalf("re-Apply failed: %v", err)
	}
}

func TestWithdraw_NoApplicationIsNoOp(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	contributor := fx.CreateContributor(ctx, "Cory", "cory@test.com", models.PurposePostInternship)
	learner := fx.CreateLearner(ctx, "Lena", "lena@test.com")
	internship := fx.CreateInternship(ctx, contributor.ID, "Summer SWE", time.Now().Add(14*24*time.Hour))

	apps := relationship.NewApplications(store, zap.NewNop(), notify.Discard{})

	if err := apps.Withdraw(ctx, internship.ID, learner.ID); err != nil {
		t.Fatalf("expected no-op withdraw to succeed, got %v", err)
	}
}

func TestUpdateStatus_OwnershipRequired(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	owner := fx.CreateContributor(ctx, "Owner", "owner@test.com", models.PurposePostInternship)
	other := fx.CreateContributor(ctx, "Other", "other@test.com", models.PurposePostInternship)
	learner := fx.CreateLearner(ctx, "Lena", "lena@test.com")
	internship := fx.CreateInternship(ctx, owner.ID, "Summer SWE", time.Now().Add(14*24*time.Hour))

	apps := relationship.NewApplications(store, zap.NewNop(), notify.Discard{})

	app, err := apps.Apply(ctx, internship.ID, learner.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	_, err = apps.UpdateStatus(ctx, app.ID, models.ApplicationAccepted, other)
	if !faults.IsKind(err, faults.Permission) {
		t.Fatalf("expected Permission fault for non-owner, got %v", err)
	}

	updated, err := apps.UpdateStatus(ctx, app.ID, models.ApplicationAccepted, owner)
	if err != nil {
		t.Fatalf("UpdateStatus failed for owner: %v", err)
	}
	if updated.Status != models.ApplicationAccepted {
		t.Errorf("status: got %q, want %q", updated.Status, models.ApplicationAccepted)
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	contributor := fx.CreateContributor(ctx, "Cory", "cory@test.com", models.PurposePostInternship)

	apps := relationship.NewApplications(store, zap.NewNop(), notify.Discard{})

	_, err := apps.UpdateStatus(ctx, "any-id", models.ApplicationStatus("maybe"), contributor)
	if !faults.IsKind(err, faults.Conflict) {
		t.Fatalf("expected Conflict for unknown status, got %v", err)
	}
}

func TestListForInternship_OwnerOnly(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	owner := fx.CreateContributor(ctx, "Owner", "owner@test.com", models.PurposePostInternship)
	other := fx.CreateContributor(ctx, "Other", "other@test.com", models.PurposePostInternship)
	internship := fx.CreateInternship(ctx, owner.ID, "Summer SWE", time.Now().Add(14*24*time.Hour))

	apps := relationship.NewApplications(store, zap.NewNop(), notify.Discard{})

	for _, email := range []string{"a@test.com", "b@test.com"} {
		l := fx.CreateLearner(ctx, "Learner", email)
		if _, err := apps.Apply(ctx, internship.ID, l.ID); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
	}

	listed, err := apps.ListForInternship(ctx, internship.ID, owner)
	if err != nil {
		t.Fatalf("ListForInternship failed: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("expected 2 applications, got %d", len(listed))
	}

	if _, err := apps.ListForInternship(ctx, internship.ID, other); !faults.IsKind(err, faults.Permission) {
		t.Fatalf("expected Permission fault for non-owner, got %v", err)
	}
}

func TestListForUser(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	contributor := fx.CreateContributor(ctx, "Cory", "cory@test.com", models.PurposePostInternship)
	learner := fx.CreateLearner(ctx, "Lena", "lena@test.com")
	first := fx.CreateInternship(ctx, contributor.ID, "First", time.Now().Add(7*24*time.Hour))
	second := fx.CreateInternship(ctx, contributor.ID, "Second", time.Now().Add(14*24*time.Hour))

	apps := relationship.NewApplications(store, zap.NewNop(), notify.Discard{})

	if _, err := apps.Apply(ctx, first.ID, learner.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := apps.Apply(ctx, second.ID, learner.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	mine, err := apps.ListForUser(ctx, learner.ID)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("expected 2 applications, got %d", len(mine))
	}
}
