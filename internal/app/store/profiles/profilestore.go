// internal/app/store/profiles/profilestore.go

// Package profiles resolves and maintains domain profiles. A profile row
// shares its id with the identity-provider user id; resolution is a
// single round trip keyed on that id.
package profiles

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/app/store/records"
	"github.com/linkuphq/linkup/internal/app/system/faults"
	"github.com/linkuphq/linkup/internal/domain/models"
)

const table = "profiles"

type Store struct {
	records records.Store
	log     *zap.Logger
}

func New(store records.Store, log *zap.Logger) *Store {
	return &Store{records: store, log: log}
}

// Resolve fetches the profile for a signed-in identity. A missing row is
// a brand-new user, not a failure: the returned profile carries the id
// with an unset role, and callers route it to onboarding.
func (s *Store) Resolve(ctx context.Context, userID string) (models.Profile, error) {
	var p models.Profile
	err := s.records.QueryOne(ctx, table, records.Filter{"_id": userID}, &p)
	if err != nil {
		if errors.Is(err, records.ErrNoRows) {
			return models.Profile{ID: userID, Role: models.RoleUnset}, nil
		}
		return models.Profile{}, faults.Wrap(faults.Transient, "resolve profile", err)
	}
	return p, nil
}

// Create inserts the profile row for a newly registered identity. Role
// and purpose start unset; only onboarding assigns them.
func (s *Store) Create(ctx context.Context, userID, fullName, email string) (models.Profile, error) {
	now := time.Now().UTC()
	p := models.Profile{
		ID:         userID,
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Role:       models.RoleUnset,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	var created models.Profile
	if err := s.records.Insert(ctx, table, p, &created); err != nil {
		if errors.Is(err, records.ErrDuplicate) {
			return models.Profile{}, faults.Wrap(faults.Conflict, "profile already exists", err)
		}
		return models.Profile{}, faults.Wrap(faults.Transient, "create profile", err)
	}
	return created, nil
}

// CompleteOnboarding assigns the role (and, for contributors, the
// purpose) chosen during onboarding. The purpose-iff-contributor
// invariant is enforced here, at the only write site.
func (s *Store) CompleteOnboarding(ctx context.Context, userID string, role models.Role, purpose models.Purpose) (models.Profile, error) {
	if !role.Valid() {
		return models.Profile{}, faults.New(faults.Conflict, "role must be learner, contributor, or admin")
	}
	if role == models.RoleAdmin {
		return models.Profile{}, faults.New(faults.Permission, "admin role cannot be self-assigned")
	}
	if role == models.RoleContributor {
		if !purpose.Valid() {
			return models.Profile{}, faults.New(faults.Conflict, "contributors must choose a purpose")
		}
	} else if purpose != models.PurposeUnset {
		return models.Profile{}, faults.New(faults.Conflict, "purpose is only valid for contributors")
	}

	var updated models.Profile
	err := s.records.Update(ctx, table, userID, records.Filter{
		"role":       role,
		"purpose":    purpose,
		"updated_at": time.Now().UTC(),
	}, &updated)
	if err != nil {
		if errors.Is(err, records.ErrNoRows) {
			return models.Profile{}, faults.Wrap(faults.NotFound, "profile not found", err)
		}
		return models.Profile{}, faults.Wrap(faults.Transient, "complete onboarding", err)
	}
	s.log.Info("onboarding completed",
		zap.String("user_id", userID),
		zap.String("role", string(role)),
		zap.String("purpose", string(purpose)))
	return updated, nil
}

// Rename updates the display name and its folded companion.
func (s *Store) Rename(ctx context.Context, userID, fullName string) (models.Profile, error) {
	var updated models.Profile
	err := s.records.Update(ctx, table, userID, records.Filter{
		"fullname":    fullName,
		"fullname_ci": text.Fold(fullName),
		"updated_at":  time.Now().UTC(),
	}, &updated)
	if err != nil {
		if errors.Is(err, records.ErrNoRows) {
			return models.Profile{}, faults.Wrap(faults.NotFound, "profile not found", err)
		}
		return models.Profile{}, faults.Wrap(faults.Transient, "rename profile", err)
	}
	return updated, nil
}

// SetPicture records the public URL of an uploaded profile picture.
func (s *Store) SetPicture(ctx context.Context, userID, url string) (models.Profile, error) {
	var updated models.Profile
	err := s.records.Update(ctx, table, userID, records.Filter{
		"profile_picture": url,
		"updated_at":      time.Now().UTC(),
	}, &updated)
	if err != nil {
		if errors.Is(err, records.ErrNoRows) {
			return models.Profile{}, faults.Wrap(faults.NotFound, "profile not found", err)
		}
		return models.Profile{}, faults.Wrap(faults.Transient, "set profile picture", err)
	}
	return updated, nil
}
