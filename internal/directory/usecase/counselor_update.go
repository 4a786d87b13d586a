package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/tenangapp/tenang/internal/directory/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/shared/constant"
)

type CounselorUpdateInput struct {
	ID              int64                  `validate:"required,gt=0"`
	FullName        string                 `validate:"omitempty,min=5,max=100,alphaspace"`
	Title           string                 `validate:"omitempty,min=3,max=100"`
	Bio             string                 `validate:"omitempty,max=2000"`
	Specialties     []string               `validate:"omitempty,max=10,dive,min=2,max=50"`
	Languages       []string               `validate:"omitempty,max=10,dive,min=2,max=30"`
	YearsExperience int16                  `validate:"omitempty,gte=0,lte=80"`
	City            string                 `validate:"omitempty,max=100"`
	Status          entity.CounselorStatus `validate:"omitempty,gt=0"`
}

func (s *Usecase) CounselorUpdate(ctx context.Context, in CounselorUpdateInput) error {
	ctx, span := s.startSpan(ctx, "CounselorUpdate")
	defer span.End()

	in.FullName = strings.TrimSpace(in.FullName)
	in.Title = strings.TrimSpace(in.Title)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermDirectoryCounselors, constant.PermActUpdate)
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

	patch := entity.PatchCounselor{
		ID:              counselor.ID,
		UpdatedBy:       clm.UserID,
		FullName:        in.FullName,
		Title:           in.Title,
		Bio:             in.Bio,
		Specialties:     in.Specialties,
		Languages:       in.Languages,
		YearsExperience: in.YearsExperience,
		City:            in.City,
		Status:          in.Status.Ensure(),
	}
	if in.FullName != "" {
		patch.AvatarURL = "https://ui-avatars.com/api/?name=" + url.QueryEscape(in.FullName)
	}

	if err := s.repoDB.PatchCounselor(ctx, patch); err != nil {
		slog.ErrorContext(ctx, "failed to repo patch counselor", "counselor_id", counselor.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
