package entity

import "time"

// Counselor is a published directory profile of a mental health counselor.
type Counselor struct {
	ID              int64
	FullName        string
	Title           string
	Bio             string
	AvatarURL       string
	Specialties     []string
	Languages       []string
	YearsExperience int16
	City            string
	Rating          float64
	SessionCount    int64
	Status          CounselorStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type NewCounselor struct {
	ID              int64
	FullName        string
	Title           string
	Bio             string
	AvatarURL       string
	Specialties     []string
	Languages       []string
	YearsExperience int16
	City            string
	Status          CounselorStatus
	CreatedBy       int64
	UpdatedBy       int64
}

// PatchCounselor carries a partial update. Zero values mean "leave as is",
// except Status which is pre-cleaned with Ensure by the caller.
type PatchCounselor struct {
	ID              int64
	UpdatedBy       int64
	FullName        string
	Title           string
	Bio             string
	AvatarURL       string
	Specialties     []string
	Languages       []string
	YearsExperience int16
	City            string
	Status          CounselorStatus
}

type CounselorFilter struct {
	OrderBy        string // one of: rating, experience, sessions
	OrderDirection string // value is: `asc` or `desc`; already trimmed and lowered
	Search         string // value already trimmed
	Specialty      string
	Language       string
	City           string
	MinRating      float64
	Size           int32
	Page           int32 // row offset, already computed from the page number
}
