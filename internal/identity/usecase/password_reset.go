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

type PasswordResetInput struct {
	Identifier  string `validate:"required,min=3,max=255"`
	Code        string `validate:"required,len=6,numeric"`
	NewPassword string `validate:"required,password"`
}

// PasswordReset trades a valid reset code for a new password. Every session
// of the account is revoked in the same transaction.
func (s *Usecase) PasswordReset(ctx context.Context, in PasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "PasswordReset")
	defer span.End()

	in.Identifier = strings.TrimSpace(in.Identifier)
	if identifierChannel(in.Identifier) == pcentity.ChannelEmail {
		in.Identifier = strings.ToLower(in.Identifier)
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, ch, err := s.findUserByIdentifier(ctx, in.Identifier)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password reset confirm for unavailable user", "identifier", in.Identifier)
		return goerror.NewBusiness("Code is invalid or expired", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by identifier", "identifier", in.Identifier, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return err
	}

	if err := s.passcode.Verify(ctx, pcusecase.VerifyInput{
		UserID:  user.ID,
		Channel: ch,
		Purpose: pcentity.PurposePasswordReset,
		Code:    in.Code,
	}); err != nil {
		return s.mapPasscodeError(err)
	}

	newHash, err := s.bcrypt.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.ResetUserPassword(ctx, user.ID, string(newHash)); err != nil {
		slog.ErrorContext(ctx, "failed to update user password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishPasswordChanged(ctx, PasswordChangedEvent{
		UserID:    user.ID,
		Email:     user.Email,
		ChangedAt: s.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish password changed", "user_id", user.ID, "error", err)
	}

	return nil
}
