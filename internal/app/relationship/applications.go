// internal/app/relationship/applications.go
package relationship

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/app/store/records"
	"github.com/linkuphq/linkup/internal/app/system/faults"
	"github.com/linkuphq/linkup/internal/app/system/notify"
	"github.com/linkuphq/linkup/internal/domain/models"
)

const (
	internshipsTable  = "internships"
	applicationsTable = "internship_applications"
)

// ErrNotPending means a withdrawal targeted an application that has
// already been accepted or rejected.
var ErrNotPending = errors.New("application is not pending")

// ErrDeadlinePassed means the internship's application deadline is in
// the past.
var ErrDeadlinePassed = errors.New("deadline passed")

// Applications manages internship applications. Unlike registrations
// and memberships these carry a status: contributors accept or reject
// them, and only pending ones can be withdrawn. The applicants counter
// on the internship counts rows in every status.
type Applications struct {
	store    records.Store
	log      *zap.Logger
	notifier notify.Notifier
}

func NewApplications(store records.Store, log *zap.Logger, n notify.Notifier) *Applications {
	return &Applications{store: store, log: log, notifier: notifierOr(n, log)}
}

// Apply files a pending application for (internshipID, userID).
// Applying twice, applying to an inactive internship, and applying
// after the deadline are Conflict faults.
func (a *Applications) Apply(ctx context.Context, internshipID, userID string) (models.Application, error) {
	var zero models.Application

	var internship models.Internship
	err := a.store.QueryOne(ctx, internshipsTable, records.Filter{"_id": internshipID}, &internship)
	if err != nil {
		if errors.Is(err, records.ErrNoRows) {
			return zero, faults.Wrap(faults.NotFound, "internship not found", err)
		}
		return zero, faults.Wrap(faults.Transient, "could not load internship", err)
	}
	if !internship.IsActive {
		a.notifier.Notify(notify.Error, "This internship is no longer available.")
		return zero, faults.Wrap(faults.Conflict, "internship is not active", ErrInactive)
	}
	if !internship.Deadline.IsZero() && time.Now().UTC().After(internship.Deadline) {
		a.notifier.Notify(notify.Error, "The application deadline has passed.")
		return zero, faults.Wrap(faults.Conflict, "deadline passed", ErrDeadlinePassed)
	}

	existing, err := a.store.Count(ctx, applicationsTable, records.Filter{
		"internship_id": internshipID,
		"user_id":       userID,
	})
	if err != nil {
		return zero, faults.Wrap(faults.Transient, "could not check existing application", err)
	}
	if existing > 0 {
		a.notifier.Notify(notify.Info, "You have already applied to this internship.")
		return zero, faults.Wrap(faults.Conflict, "already applied", ErrAlreadyRelated)
	}

	doc := models.Application{
		InternshipID:    internshipID,
		UserID:          userID,
		Status:          models.ApplicationPending,
		ApplicationDate: time.Now().UTC(),
	}
	var confirmed models.Application
	if err := a.store.Insert(ctx, applicationsTable, doc, &confirmed); err != nil {
		if errors.Is(err, records.ErrDuplicate) {
			a.notifier.Notify(notify.Info, "You have already applied to this internship.")
			return zero, faults.Wrap(faults.Conflict, "already applied", ErrAlreadyRelated)
		}
		a.notifier.Notify(notify.Error, "Could not submit application.")
		return zero, faults.Wrap(faults.Transient, "could not submit application", err)
	}

	if err := a.resync(ctx, internshipID); err != nil {
		a.log.Warn("applicants resync failed after apply",
			zap.String("internship_id", internshipID),
			zap.Error(err),
		)
		a.notifier.Notify(notify.Success, "Application submitted.")
		return confirmed, &CounterSyncError{ResourceID: internshipID, Err: err}
	}

	a.notifier.Notify(notify.Success, "Application submitted.")
	return confirmed, nil
}

// Withdraw removes the user's pending application. Withdrawing without
// a prior application is a no-op success; an accepted or rejected
// application cannot be withdrawn.
func (a *Applications) Withdraw(ctx context.Context, internshipID, userID string) error {
	var app models.Application
	err := a.store.QueryOne(ctx, applicationsTable, records.Filter{
		"internship_id": internshipID,
		"user_id":       userID,
	}, &app)
	if err != nil {
		if errors.Is(err, records.ErrNoRows) {
			return nil
		}
		return faults.Wrap(faults.Transient, "could not look up application", err)
	}
	if app.Status != models.ApplicationPending {
		a.notifier.Notify(notify.Error, "Only pending applications can be withdrawn.")
		return faults.Wrap(faults.Conflict, "application already decided", ErrNotPending)
	}

	if err := a.store.Delete(ctx, applicationsTable, app.ID); err != nil && !errors.Is(err, records.ErrNoRows) {
		a.notifier.Notify(notify.Error, "Could not withdraw application.")
		return faults.Wrap(faults.Transient, "could not withdraw application", err)
	}

	if err := a.resync(ctx, internshipID); err != nil {
		a.log.Warn("applicants resync failed after withdraw",
			zap.String("internship_id", internshipID),
			zap.Error(err),
		)
		a.notifier.Notify(notify.Success, "Application withdrawn.")
		return &CounterSyncError{ResourceID: internshipID, Err: err}
	}

	a.notifier.Notify(notify.Success, "Application withdrawn.")
	return nil
}

// UpdateStatus sets an application's status on behalf of a contributor.
// The check is two-step: load the application, then its internship, and
// require the internship to belong to the acting contributor.
func (a *Applications) UpdateStatus(ctx context.Context, applicationID string, status models.ApplicationStatus, actor models.Profile) (models.Application, error) {
	var zero models.Application
	if !status.Valid() {
		return zero, faults.New(faults.Conflict, "unknown application status")
	}

	var app models.Application
	err := a.store.QueryOne(ctx, applicationsTable, records.Filter{"_id": applicationID}, &app)
	if err != nil {
		if errors.Is(err, records.ErrNoRows) {
			return zero, faults.Wrap(faults.NotFound, "application not found", err)
		}
		return zero, faults.Wrap(faults.Transient, "could not load application", err)
	}

	var internship models.Internship
	err = a.store.QueryOne(ctx, internshipsTable, records.Filter{"_id": app.InternshipID}, &internship)
	if err != nil {
		if errors.Is(err, records.ErrNoRows) {
			return zero, faults.Wrap(faults.NotFound, "internship not found", err)
		}
		return zero, faults.Wrap(faults.Transient, "could not load internship", err)
	}
	if internship.ContributorID != actor.ID {
		return zero, faults.New(faults.Permission, "you do not own this internship")
	}

	var confirmed models.Application
	if err := a.store.Update(ctx, applicationsTable, applicationID, records.Filter{"status": status}, &confirmed); err != nil {
		a.notifier.Notify(notify.Error, "Could not update application.")
		return zero, faults.Wrap(faults.Transient, "could not update application", err)
	}

	a.notifier.Notify(notify.Success, "Application "+string(status)+".")
	return confirmed, nil
}

// ListForInternship returns an internship's applications for its owner,
// newest first.
func (a *Applications) ListForInternship(ctx context.Context, internshipID string, actor models.Profile) ([]models.Application, error) {
	var internship models.Internship
	err := a.store.QueryOne(ctx, internshipsTable, records.Filter{"_id": internshipID}, &internship)
	if err != nil {
		if errors.Is(err, records.ErrNoRows) {
			return nil, faults.Wrap(faults.NotFound, "internship not found", err)
		}
		return nil, faults.Wrap(faults.Transient, "could not load internship", err)
	}
	if internship.ContributorID != actor.ID {
		return nil, faults.New(faults.Permission, "you do not own this internship")
	}

	var apps []models.Application
	err = a.store.Query(ctx, applicationsTable, records.Filter{"internship_id": internshipID},
		records.Options{OrderBy: "application_date", Desc: true}, &apps)
	if err != nil {
		return nil, faults.Wrap(faults.Transient, "could not load applications", err)
	}
	return apps, nil
}

// ListForUser returns the user's applications across internships,
// newest first.
func (a *Applications) ListForUser(ctx context.Context, userID string) ([]models.Application, error) {
	var apps []models.Application
	err := a.store.Query(ctx, applicationsTable, records.Filter{"user_id": userID},
		records.Options{OrderBy: "application_date", Desc: true}, &apps)
	if err != nil {
		return nil, faults.Wrap(faults.Transient, "could not load applications", err)
	}
	return apps, nil
}

func (a *Applications) resync(ctx context.Context, internshipID string) error {
	count, err := a.store.Count(ctx, applicationsTable, records.Filter{"internship_id": internshipID})
	if err != nil {
		return err
	}
	var updated bson.M
	return a.store.Update(ctx, internshipsTable, internshipID, records.Filter{"applicants": count}, &updated)
}
