package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	pcentity "github.com/tenangapp/tenang/internal/passcode/entity"
	pcusecase "github.com/tenangapp/tenang/internal/passcode/usecase"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

type LoginOTPConfirmInput struct {
	Phone string `validate:"required,e164"`
	Code  string `validate:"required,len=6,numeric"`
}

type LoginOTPConfirmOutput struct {
	AccessToken  string
	RefreshToken string
}

// LoginOTPConfirm finishes a passwordless login. Possession of the phone is
// the authentication factor, so the code is only accepted for numbers that
// went through verification.
func (s *Usecase) LoginOTPConfirm(ctx context.Context, in LoginOTPConfirmInput) (*LoginOTPConfirmOutput, error) {
	ctx, span := s.startSpan(ctx, "LoginOTPConfirm")
	defer span.End()

	in.Phone = strings.TrimSpace(in.Phone)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByPhone(ctx, in.Phone, false)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "phone not registered for otp login", "phone", in.Phone)
		return nil, goerror.NewBusiness("Code is invalid or expired", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by phone", "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return nil, err
	}

	if user.PhoneVerifiedAt == nil {
		slog.WarnContext(ctx, "otp login confirm for unverified phone", "user_id", user.ID)
		return nil, goerror.NewBusiness("Code is invalid or expired", goerror.CodeUnauthorized)
	}

	if err := s.passcode.Verify(ctx, pcusecase.VerifyInput{
		UserID:  user.ID,
		Channel: pcentity.ChannelPhone,
		Purpose: pcentity.PurposeLogin,
		Code:    in.Code,
	}); err != nil {
		return nil, s.mapPasscodeError(err)
	}

	acToken, refToken, err := s.issueSessionTokens(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &LoginOTPConfirmOutput{
		AccessToken:  acToken,
		RefreshToken: refToken,
	}, nil
}
