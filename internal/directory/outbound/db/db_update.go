package db

import (
	"context"
	"strconv"
	"strings"

	"github.com/tenangapp/tenang/internal/directory/entity"
)

func (s *DB) PatchCounselor(ctx context.Context, in entity.PatchCounselor) (err error) {
	ctx, span := s.startSpan(ctx, "PatchCounselor")
	defer func() { s.endSpan(span, err) }()

	sets := []string{"updated_by = $1", "updated_at = now()"}
	args := []any{in.UpdatedBy}

	if in.FullName != "" {
		args = append(args, in.FullName)
		sets = append(sets, "full_name = $"+strconv.Itoa(len(args)))
	}
	if in.Title != "" {
		args = append(args, in.Title)
		sets = append(sets, "title = $"+strconv.Itoa(len(args)))
	}
	if in.Bio != "" {
		args = append(args, in.Bio)
		sets = append(sets, "bio = $"+strconv.Itoa(len(args)))
	}
	if in.AvatarURL != "" {
		args = append(args, in.AvatarURL)
		sets = append(sets, "avatar_url = $"+strconv.Itoa(len(args)))
	}
	if len(in.Specialties) > 0 {
		args = append(args, in.Specialties)
		sets = append(sets, "specialties = $"+strconv.Itoa(len(args)))
	}
	if len(in.Languages) > 0 {
		args = append(args, in.Languages)
		sets = append(sets, "languages = $"+strconv.Itoa(len(args)))
	}
	if in.YearsExperience > 0 {
		args = append(args, in.YearsExperience)
		sets = append(sets, "years_experience = $"+strconv.Itoa(len(args)))
	}
	if in.City != "" {
		args = append(args, in.City)
		sets = append(sets, "city = $"+strconv.Itoa(len(args)))
	}
	if in.Status != entity.CounselorStatusUnknown {
		args = append(args, int16(in.Status))
		sets = append(sets, "status = $"+strconv.Itoa(len(args)))
	}

	args = append(args, in.ID)
	query := "UPDATE directory_counselors SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args))

	_, err = s.conn.Exec(ctx, query, args...)
	return s.mapError(err)
}

func (s *DB) MarkCounselorInactive(ctx context.Context, id, updatedBy int64) (err error) {
	ctx, span := s.startSpan(ctx, "MarkCounselorInactive")
	defer func() { s.endSpan(span, err) }()

	query := `
		UPDATE directory_counselors
		SET status = $2, updated_by = $3, updated_at = now()
		WHERE id = $1 AND status <> $2`

	_, err = s.conn.Exec(ctx, query, id, int16(entity.CounselorStatusInactive), updatedBy)
	return s.mapError(err)
}
