package db

import (
	"context"

	"github.com/tenangapp/tenang/internal/directory/entity"
)

func (s *DB) CreateCounselor(ctx context.Context, in entity.NewCounselor) (err error) {
	ctx, span := s.startSpan(ctx, "CreateCounselor")
	defer func() { s.endSpan(span, err) }()

	query := `
		INSERT INTO directory_counselors
			(id, full_name, title, bio, avatar_url, specialties, languages,
			 years_experience, city, status, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = s.conn.Exec(ctx, query,
		in.ID, in.FullName, in.Title, in.Bio, in.AvatarURL, in.Specialties, in.Languages,
		in.YearsExperience, in.City, int16(in.Status), in.CreatedBy, in.UpdatedBy,
	)
	return s.mapError(err)
}
