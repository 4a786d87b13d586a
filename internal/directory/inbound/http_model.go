package inbound

import (
	"time"

	"github.com/tenangapp/tenang/internal/directory/entity"
)

type CounselorResponse struct {
	ID              int64                  `json:"id,string"`
	FullName        string                 `json:"full_name"`
	Title           string                 `json:"title"`
	Bio             string                 `json:"bio"`
	AvatarURL       string                 `json:"avatar_url"`
	Specialties     []string               `json:"specialties"`
	Languages       []string               `json:"languages"`
	YearsExperience int16                  `json:"years_experience"`
	City            string                 `json:"city"`
	Rating          float64                `json:"rating"`
	SessionCount    int64                  `json:"session_count"`
	Status          entity.CounselorStatus `json:"status"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

type CounselorsResponse struct {
	Counselors []CounselorResponse `json:"counselors"`
	// meta
	total int64
	size  int32
	page  int32
}

func (r CounselorsResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
		"size":  r.size,
		"page":  r.page,
	}
}

type CounselorDetailResponse struct {
	Counselor CounselorResponse `json:"counselor"`
}

type CounselorCreateRequest struct {
	FullName        string   `json:"full_name"`
	Title           string   `json:"title"`
	Bio             string   `json:"bio"`
	Specialties     []string `json:"specialties"`
	Languages       []string `json:"languages"`
	YearsExperience int16    `json:"years_experience"`
	City            string   `json:"city"`
}

type CounselorCreateResponse struct {
	ID int64 `json:"id,string"`
}

type CounselorUpdateRequest struct {
	FullName        string                 `json:"full_name,omitempty"`
	Title           string                 `json:"title,omitempty"`
	Bio             string                 `json:"bio,omitempty"`
	Specialties     []string               `json:"specialties,omitempty"`
	Languages       []string               `json:"languages,omitempty"`
	YearsExperience int16                  `json:"years_experience,omitempty"`
	City            string                 `json:"city,omitempty"`
	Status          entity.CounselorStatus `json:"status,omitempty"`
}
