package usecase

import (
	"context"
	"log/slog"

	"github.com/tenangapp/tenang/internal/directory/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

type CounselorListInput struct {
	Search    string // value already trimmed
	Specialty string
	Language  string
	City      string
	MinRating float64
	Size      int32
	Page      int32
	SortBy    string // value already trimmed
	SortOrder string // value is: `asc` or `desc`; already trimmed and lowered
}

type CounselorListOutput struct {
	Page       int32
	Size       int32
	Total      int64
	Counselors []entity.Counselor
}

func (s *Usecase) CounselorList(ctx context.Context, in CounselorListInput) (*CounselorListOutput, error) {
	ctx, span := s.startSpan(ctx, "ListCounselors")
	defer span.End()

	if in.Size <= 0 || in.Size > 100 {
		in.Size = 10 // default limit
	}
	filter := entity.CounselorFilter{
		OrderBy:        in.SortBy,
		OrderDirection: in.SortOrder,
		Search:         in.Search,
		Specialty:      in.Specialty,
		Language:       in.Language,
		City:           in.City,
		MinRating:      in.MinRating,
		Size:           in.Size,
		Page:           (max(in.Page, 1) - 1) * in.Size,
	}

	counselors, count, err := s.repoDB.GetCounselorFilter(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list counselors", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &CounselorListOutput{
		Page:       max(in.Page, 1),
		Size:       in.Size,
		Total:      count,
		Counselors: counselors,
	}, nil
}
