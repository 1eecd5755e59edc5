// internal/domain/models/profile.go
package models

import "time"

// Role is the top-level account kind. It gates which dashboard subtree a
// user may enter. RoleUnset means onboarding has not completed.
type Role string

const (
	RoleUnset       Role = ""
	RoleLearner     Role = "learner"
	RoleContributor Role = "contributor"
	RoleAdmin       Role = "admin"
)

// Roles is the set of assignable roles. RoleUnset is intentionally absent:
// it is a transitional state, never a value onboarding may write.
var Roles = []Role{RoleLearner, RoleContributor, RoleAdmin}

// Valid reports whether r is an assignable role.
func (r Role) Valid() bool {
	switch r {
	case RoleLearner, RoleContributor, RoleAdmin:
		return true
	}
	return false
}

// Purpose is the contributor-only sub-classification restricting which
// single resource type a contributor may manage. Meaningful only when
// Role is RoleContributor.
type Purpose string

const (
	PurposeUnset          Purpose = ""
	PurposePostEvents     Purpose = "post-events"
	PurposePostClub       Purpose = "post-club"
	PurposePostInternship Purpose = "post-internship"
	PurposeMentorship     Purpose = "provide-mentorship"
)

// Purposes is the set of assignable contributor purposes.
var Purposes = []Purpose{
	PurposePostEvents,
	PurposePostClub,
	PurposePostInternship,
	PurposeMentorship,
}

// Valid reports whether p is an assignable purpose.
func (p Purpose) Valid() bool {
	_, ok := purposeSections[p]
	return ok
}

// Section identifies a dashboard sub-path (the segment after
// /contributor/dashboard/ or /learner/dashboard/).
type Section string

const (
	SectionEvents     Section = "events"
	SectionClubs      Section = "clubs"
	SectionInternship Section = "internship"
	SectionMentorship Section = "mentorship"
)

// Sections lists every dashboard section, in navigation order.
var Sections = []Section{
	SectionEvents,
	SectionClubs,
	SectionInternship,
	SectionMentorship,
}

// purposeSections maps each contributor purpose to the single dashboard
// section that purpose permits. This table is the only place the
// purpose→section relationship is defined; every component that filters
// navigation or routes derives from it.
var purposeSections = map[Purpose]Section{
	PurposePostEvents:     SectionEvents,
	PurposePostClub:       SectionClubs,
	PurposePostInternship: SectionInternship,
	PurposeMentorship:     SectionMentorship,
}

// Section returns the dashboard section a purpose permits, and whether
// the purpose is one of the known values.
func (p Purpose) Section() (Section, bool) {
	s, ok := purposeSections[p]
	return s, ok
}

// Profile is the domain identity record resolved for a signed-in user.
//
// Invariant: Purpose is set if and only if Role is RoleContributor and
// onboarding has completed. The onboarding flow is the only writer of
// Role and Purpose.
type Profile struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	FullName       string    `bson:"fullname" json:"fullname"`
	FullNameCI     string    `bson:"fullname_ci" json:"fullname_ci"` // lowercase, diacritics-stripped
	Email          string    `bson:"email" json:"email"`
	ProfilePicture string    `bson:"profile_picture,omitempty" json:"profile_picture,omitempty"`
	Role           Role      `bson:"role" json:"role"`
	Purpose        Purpose   `bson:"purpose,omitempty" json:"purpose,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// Onboarded reports whether the profile has completed onboarding: a role
// is assigned, and contributors additionally carry their purpose.
func (p Profile) Onboarded() bool {
	if !p.Role.Valid() {
		return false
	}
	if p.Role == RoleContributor {
		return p.Purpose.Valid()
	}
	return p.Purpose == PurposeUnset
}
