// internal/app/collection/resources.go
package collection

import (
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/linkuphq/linkup/internal/app/store/records"
	"github.com/linkuphq/linkup/internal/app/system/htmlsanitize"
	"github.com/linkuphq/linkup/internal/app/system/notify"
	"github.com/linkuphq/linkup/internal/domain/models"
)

// NewEvents builds the events collection. Listings order by event date,
// soonest first.
func NewEvents(store records.Store, identity models.Profile, log *zap.Logger, n notify.Notifier) *Collection[models.Event] {
	return New(Config[models.Event]{
		Store:    store,
		Identity: identity,
		Log:      log,
		Notifier: n,
		Table:    "events",
		Noun:     "event",
		Order:    records.Options{OrderBy: "date"},
		Hooks: Hooks[models.Event]{
			ID:        func(e models.Event) string { return e.ID },
			Owner:     func(e models.Event) string { return e.ContributorID },
			CreatedAt: func(e models.Event) time.Time { return e.CreatedAt },
			Stamp: func(e models.Event, ownerID string, now time.Time) models.Event {
				e.ID = ""
				e.ContributorID = ownerID
				e.TitleCI = text.Fold(e.Title)
				e.Description = htmlsanitize.Sanitize(e.Description)
				e.Attendees = 0
				e.IsActive = true
				e.CreatedAt = now
				e.UpdatedAt = now
				return e
			},
			Less: func(a, b models.Event) bool { return a.Date.Before(b.Date) },
		},
		NameField:   "title",
		FoldedField: "title_ci",
		Protected:   []string{"_id", "contributor_id", "attendees", "created_at", "title_ci"},
	})
}

// NewClubs builds the clubs collection. Listings order by creation time,
// newest first.
func NewClubs(store records.Store, identity models.Profile, log *zap.Logger, n notify.Notifier) *Collection[models.Club] {
	return New(Config[models.Club]{
		Store:    store,
		Identity: identity,
		Log:      log,
		Notifier: n,
		Table:    "clubs",
		Noun:     "club",
		Order:    records.Options{OrderBy: "created_at", Desc: true},
		Hooks: Hooks[models.Club]{
			ID:        func(c models.Club) string { return c.ID },
			Owner:     func(c models.Club) string { return c.ContributorID },
			CreatedAt: func(c models.Club) time.Time { return c.CreatedAt },
			Stamp: func(c models.Club, ownerID string, now time.Time) models.Club {
				c.ID = ""
				c.ContributorID = ownerID
				c.NameCI = text.Fold(c.Name)
				c.Description = htmlsanitize.Sanitize(c.Description)
				c.Members = 0
				c.IsActive = true
				c.CreatedAt = now
				c.UpdatedAt = now
				return c
			},
			Less: func(a, b models.Club) bool { return a.CreatedAt.After(b.CreatedAt) },
		},
		NameField:   "name",
		FoldedField: "name_ci",
		Protected:   []string{"_id", "contributor_id", "members", "created_at", "name_ci"},
	})
}

// NewInternships builds the internships collection. Listings order by
// application deadline, soonest first.
func NewInternships(store records.Store, identity models.Profile, log *zap.Logger, n notify.Notifier) *Collection[models.Internship] {
	return New(Config[models.Internship]{
		Store:    store,
		Identity: identity,
		Log:      log,
		Notifier: n,
		Table:    "internships",
		Noun:     "internship",
		Order:    records.Options{OrderBy: "deadline"},
		Hooks: Hooks[models.Internship]{
			ID:        func(i models.Internship) string { return i.ID },
			Owner:     func(i models.Internship) string { return i.ContributorID },
			CreatedAt: func(i models.Internship) time.Time { return i.CreatedAt },
			Stamp: func(i models.Internship, ownerID string, now time.Time) models.Internship {
				i.ID = ""
				i.ContributorID = ownerID
				i.TitleCI = text.Fold(i.Title)
				i.Description = htmlsanitize.Sanitize(i.Description)
				i.Applicants = 0
				i.IsActive = true
				i.CreatedAt = now
				i.UpdatedAt = now
				return i
			},
			Less: func(a, b models.Internship) bool { return a.Deadline.Before(b.Deadline) },
		},
		NameField:   "title",
		FoldedField: "title_ci",
		Protected:   []string{"_id", "contributor_id", "applicants", "created_at", "title_ci"},
	})
}

// NewMentorships builds the mentorships collection. Mentorships carry no
// join counter; listings order by creation time, newest first.
func NewMentorships(store records.Store, identity models.Profile, log *zap.Logger, n notify.Notifier) *Collection[models.Mentorship] {
	return New(Config[models.Mentorship]{
		Store:    store,
		Identity: identity,
		Log:      log,
		Notifier: n,
		Table:    "mentorships",
		Noun:     "mentorship",
		Order:    records.Options{OrderBy: "created_at", Desc: true},
		Hooks: Hooks[models.Mentorship]{
			ID:        func(m models.Mentorship) string { return m.ID },
			Owner:     func(m models.Mentorship) string { return m.ContributorID },
			CreatedAt: func(m models.Mentorship) time.Time { return m.CreatedAt },
			Stamp: func(m models.Mentorship, ownerID string, now time.Time) models.Mentorship {
				m.ID = ""
				m.ContributorID = ownerID
				m.TitleCI = text.Fold(m.Title)
				m.Description = htmlsanitize.Sanitize(m.Description)
				m.IsActive = true
				m.CreatedAt = now
				m.UpdatedAt = now
				return m
			},
			Less: func(a, b models.Mentorship) bool { return a.CreatedAt.After(b.CreatedAt) },
		},
		NameField:   "title",
		FoldedField: "title_ci",
		Protected:   []string{"_id", "contributor_id", "created_at", "title_ci"},
	})
}
