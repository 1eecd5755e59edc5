// internal/domain/models/mentorship.go
package models

import "time"

// Mentorship is a contributor-owned mentorship offering. Mentorships have
// no join relationship and therefore no denormalized counter; learners
// browse offerings and contact mentors out of band.
type Mentorship struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	ContributorID string    `bson:"contributor_id" json:"contributor_id"`
	Title         string    `bson:"title" json:"title"`
	TitleCI       string    `bson:"title_ci" json:"title_ci"`
	Expertise     string    `bson:"expertise" json:"expertise"`
	Description   string    `bson:"description" json:"description"`
	Availability  string    `bson:"availability,omitempty" json:"availability,omitempty"`
	IsActive      bool      `bson:"is_active" json:"is_active"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}
