// internal/domain/models/event.go
package models

import "time"

// Event is a contributor-owned event listing.
//
// Attendees is a denormalized counter: it must always equal the count of
// event_registrations rows referencing this event. It is maintained by the
// relationship layer and recomputed from a true count on reconciliation.
type Event struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	ContributorID string    `bson:"contributor_id" json:"contributor_id"`
	Title         string    `bson:"title" json:"title"`
	TitleCI       string    `bson:"title_ci" json:"title_ci"` // lowercase, diacritics-stripped
	Description   string    `bson:"description" json:"description"`
	Location      string    `bson:"location" json:"location"`
	Category      string    `bson:"category" json:"category"`
	Organizer     string    `bson:"organizer" json:"organizer"`
	ImageURL      string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Date          time.Time `bson:"date" json:"date"`
	MaxAttendees  int       `bson:"max_attendees" json:"max_attendees"`
	Attendees     int       `bson:"attendees" json:"attendees"`
	IsActive      bool      `bson:"is_active" json:"is_active"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}
