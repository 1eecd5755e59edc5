// internal/domain/models/internship.go
package models

import "time"

// Internship is a contributor-owned internship listing.
//
// Applicants mirrors the count of internship_applications rows for this
// internship. Applications are counted regardless of status; accepted and
// rejected applications remain rows (they transition rather than delete).
type Internship struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	ContributorID string    `bson:"contributor_id" json:"contributor_id"`
	Title         string    `bson:"title" json:"title"`
	TitleCI       string    `bson:"title_ci" json:"title_ci"`
	Company       string    `bson:"company" json:"company"`
	Description   string    `bson:"description" json:"description"`
	Location      string    `bson:"location" json:"location"`
	Duration      string    `bson:"duration,omitempty" json:"duration,omitempty"`
	Stipend       string    `bson:"stipend,omitempty" json:"stipend,omitempty"`
	Deadline      time.Time `bson:"deadline" json:"deadline"`
	Applicants    int       `bson:"applicants" json:"applicants"`
	IsActive      bool      `bson:"is_active" json:"is_active"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}
