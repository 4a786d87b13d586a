package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tenangapp/tenang/internal/identity/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/pkg/jwt"
)

type PasswordChangeInput struct {
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"required,password"`
}

// PasswordChange swaps the credential after proving the caller still knows
// the current password. Every other session is revoked: a stolen refresh
// token must not outlive the password it was minted under.
func (s *Usecase) PasswordChange(ctx context.Context, in PasswordChangeInput) error {
	ctx, span := s.startSpan(ctx, "PasswordChange")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	user, err := s.activeCredential(ctx, clm.UserID)
	if err != nil {
		return err
	}

	if !s.bcrypt.Verify(user.Password, in.CurrentPassword) {
		slog.WarnContext(ctx, "current password mismatch", "user_id", user.ID)
		return goerror.NewBusiness("invalid password", goerror.CodeUnauthorized)
	}

	newHash, err := s.bcrypt.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.UpdateUserCredential(ctx, user.ID, string(newHash)); err != nil {
		slog.ErrorContext(ctx, "failed to update user password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	// Other sessions must re-authenticate with the new password.
	if err := s.repoDB.RevokeAllRefreshToken(ctx, user.ID); err != nil {
		slog.ErrorContext(ctx, "failed to revoke refresh tokens after password change", "user_id", user.ID, "error", err)
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

// activeCredential loads the credential row for an authenticated caller and
// gates it on account status.
func (s *Usecase) activeCredential(ctx context.Context, userID int64) (*entity.UserCredentialInfo, error) {
	user, err := s.repoDB.GetUserCredentialInfo(ctx, userID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "user_id", userID)
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user credential info", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return nil, err
	}

	return user, nil
}
