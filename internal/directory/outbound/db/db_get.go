package db

import (
	"context"
	"strconv"
	"strings"

	"github.com/tenangapp/tenang/internal/directory/entity"
)

// orderColumns maps sort keys to real columns. Keys outside the map fall back
// to rating, so the ORDER BY clause never carries caller input.
var orderColumns = map[string]string{
	"rating":     "rating",
	"experience": "years_experience",
	"sessions":   "session_count",
}

func (s *DB) GetCounselorFilter(ctx context.Context, filter entity.CounselorFilter) (_ []entity.Counselor, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "GetCounselorFilter")
	defer func() { s.endSpan(span, err) }()

	where, args := buildCounselorWhere(filter)

	orderCol, ok := orderColumns[filter.OrderBy]
	if !ok {
		orderCol = "rating"
	}
	direction := "DESC"
	if filter.OrderDirection == "asc" {
		direction = "ASC"
	}

	query := `
		SELECT id, full_name, title, bio, avatar_url, specialties, languages,
		       years_experience, city, rating, session_count, status, created_at, updated_at
		FROM directory_counselors
		WHERE ` + where + `
		ORDER BY ` + orderCol + ` ` + direction + `, id
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)

	rows, err := s.conn.Query(ctx, query, append(args, filter.Size, filter.Page)...)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	counselors := make([]entity.Counselor, 0, filter.Size)
	for rows.Next() {
		var (
			item      entity.Counselor
			rawStatus int16
		)
		if err = rows.Scan(
			&item.ID, &item.FullName, &item.Title, &item.Bio, &item.AvatarURL,
			&item.Specialties, &item.Languages, &item.YearsExperience, &item.City,
			&item.Rating, &item.SessionCount, &rawStatus, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, 0, s.mapError(err)
		}
		item.Status = entity.CounselorStatus(rawStatus)
		counselors = append(counselors, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	var count int64
	err = s.conn.QueryRow(ctx, `SELECT count(*) FROM directory_counselors WHERE `+where, args...).Scan(&count)
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	return counselors, count, nil
}

// buildCounselorWhere assembles the filter clauses shared by the page and
// count queries. Only active rows are ever listed.
func buildCounselorWhere(filter entity.CounselorFilter) (string, []any) {
	where := []string{"status = $1"}
	args := []any{int16(entity.CounselorStatusActive)}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(full_name ILIKE $"+n+" OR title ILIKE $"+n+")")
	}
	if filter.Specialty != "" {
		args = append(args, filter.Specialty)
		where = append(where, "$"+strconv.Itoa(len(args))+" = ANY(specialties)")
	}
	if filter.Language != "" {
		args = append(args, filter.Language)
		where = append(where, "$"+strconv.Itoa(len(args))+" = ANY(languages)")
	}
	if filter.City != "" {
		args = append(args, filter.City)
		where = append(where, "city ILIKE $"+strconv.Itoa(len(args)))
	}
	if filter.MinRating > 0 {
		args = append(args, filter.MinRating)
		where = append(where, "rating >= $"+strconv.Itoa(len(args)))
	}

	return strings.Join(where, " AND "), args
}

func (s *DB) GetCounselorByID(ctx context.Context, id int64) (_ *entity.Counselor, err error) {
	ctx, span := s.startSpan(ctx, "GetCounselorByID")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT id, full_name, title, bio, avatar_url, specialties, languages,
		       years_experience, city, rating, session_count, status, created_at, updated_at
		FROM directory_counselors
		WHERE id = $1`

	var (
		item      entity.Counselor
		rawStatus int16
	)

	err = s.conn.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.FullName, &item.Title, &item.Bio, &item.AvatarURL,
		&item.Specialties, &item.Languages, &item.YearsExperience, &item.City,
		&item.Rating, &item.SessionCount, &rawStatus, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	item.Status = entity.CounselorStatus(rawStatus)

	return &item, nil
}
