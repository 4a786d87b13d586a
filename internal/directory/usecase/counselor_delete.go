package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tenangapp/tenang/internal/directory/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/shared/constant"
)

type (
	CounselorDeleteInput struct {
		ID int64 `validate:"required,gt=0"`
	}
)

func (s *Usecase) CounselorDelete(ctx context.Context, in CounselorDeleteInput) error {
	ctx, span := s.startSpan(ctx, "CounselorDelete")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermDirectoryCounselors, constant.PermActDelete)
	if err != nil {
		return err
	}

	counselor, err := s.repoDB.GetCounselorByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "counselor not found", "counselor_id", in.ID)
		return goerror.NewBusiness("counselor not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get counselor by id", "counselor_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	if counselor.Status == entity.CounselorStatusInactive {
		return nil
	}

	if err := s.repoDB.MarkCounselorInactive(ctx, counselor.ID, clm.UserID); err != nil {
		slog.ErrorContext(ctx, "failed to mark counselor inactive", "counselor_id", counselor.ID, "by_user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
