// internal/domain/models/relationship.go
package models

import "time"

// Relationship rows join a learner to a resource. Exactly one row per
// (resource, user) pair; the record store enforces this with a unique
// index, which is the real arbiter under concurrent joins.

// Registration joins a learner to an event.
type Registration struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	EventID          string    `bson:"event_id" json:"event_id"`
	UserID           string    `bson:"user_id" json:"user_id"`
	RegistrationDate time.Time `bson:"registration_date" json:"registration_date"`
}

// Membership joins a learner to a club.
type Membership struct {
	ID       string    `bson:"_id,omitempty" json:"id"`
	ClubID   string    `bson:"club_id" json:"club_id"`
	UserID   string    `bson:"user_id" json:"user_id"`
	JoinedAt time.Time `bson:"joined_at" json:"joined_at"`
}

// ApplicationStatus is the lifecycle state of an internship application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}

// Application joins a learner to an internship. Unlike registrations and
// memberships, accepted and rejected applications transition status
// instead of deleting; only pending applications may be withdrawn.
type Application struct {
	ID              string            `bson:"_id,omitempty" json:"id"`
	InternshipID    string            `bson:"internship_id" json:"internship_id"`
	UserID          string            `bson:"user_id" json:"user_id"`
	Status          ApplicationStatus `bson:"status" json:"status"`
	ApplicationDate time.Time         `bson:"application_date" json:"application_date"`
}
