package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tenangapp/tenang/internal/directory/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

type (
	CounselorDetailInput struct {
		ID int64 `validate:"required,gt=0"`
	}

	CounselorDetailOutput struct {
		Counselor entity.Counselor
	}
)

func (s *Usecase) CounselorDetail(ctx context.Context, in CounselorDetailInput) (*CounselorDetailOutput, error) {
	ctx, span := s.startSpan(ctx, "CounselorDetail")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	counselor, err := s.repoDB.GetCounselorByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "counselor not found", "counselor_id", in.ID)
		return nil, goerror.NewBusiness("counselor not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get counselor by id", "counselor_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	// Inactive profiles are indistinguishable from missing ones.
	if counselor.Status != entity.CounselorStatusActive {
		slog.WarnContext(ctx, "counselor is not active", "counselor_id", in.ID)
		return nil, goerror.NewBusiness("counselor not found", goerror.CodeNotFound)
	}

	return &CounselorDetailOutput{Counselor: *counselor}, nil
}
