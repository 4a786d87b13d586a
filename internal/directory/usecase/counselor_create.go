package usecase

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/tenangapp/tenang/internal/directory/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/shared/constant"
)

type (
	CounselorCreateInput struct {
		FullName        string   `validate:"required,min=5,max=100,alphaspace"`
		Title           string   `validate:"required,min=3,max=100"`
		Bio             string   `validate:"omitempty,max=2000"`
		Specialties     []string `validate:"omitempty,max=10,dive,min=2,max=50"`
		Languages       []string `validate:"omitempty,max=10,dive,min=2,max=30"`
		YearsExperience int16    `validate:"omitempty,gte=0,lte=80"`
		City            string   `validate:"omitempty,max=100"`
	}

	CounselorCreateOutput struct {
		ID int64
	}
)

func (s *Usecase) CounselorCreate(ctx context.Context, in CounselorCreateInput) (*CounselorCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "CounselorCreate")
	defer span.End()

	in.FullName = strings.TrimSpace(in.FullName)
	in.Title = strings.TrimSpace(in.Title)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermDirectoryCounselors, constant.PermActCreate)
	if err != nil {
		return nil, err
	}

	newCounselor := entity.NewCounselor{
		ID:              s.uid.Generate(),
		FullName:        in.FullName,
		Title:           in.Title,
		Bio:             in.Bio,
		AvatarURL:       "https://ui-avatars.com/api/?name=" + url.QueryEscape(in.FullName),
		Specialties:     in.Specialties,
		Languages:       in.Languages,
		YearsExperience: in.YearsExperience,
		City:            in.City,
		Status:          entity.CounselorStatusActive,
		CreatedBy:       clm.UserID,
		UpdatedBy:       clm.UserID,
	}

	if err := s.repoDB.CreateCounselor(ctx, newCounselor); err != nil {
		slog.ErrorContext(ctx, "failed to repo create counselor", "counselor_id", newCounselor.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &CounselorCreateOutput{ID: newCounselor.ID}, nil
}
