// internal/domain/models/club.go
package models

import "time"

// Club is a contributor-owned club listing.
//
// Members mirrors the count of club_members rows for this club.
type Club struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	ContributorID string    `bson:"contributor_id" json:"contributor_id"`
	Name          string    `bson:"name" json:"name"`
	NameCI        string    `bson:"name_ci" json:"name_ci"`
	Description   string    `bson:"description" json:"description"`
	Category      string    `bson:"category" json:"category"`
	MeetingDay    string    `bson:"meeting_day,omitempty" json:"meeting_day,omitempty"`
	ImageURL      string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Members       int       `bson:"members" json:"members"`
	IsActive      bool      `bson:"is_active" json:"is_active"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}
