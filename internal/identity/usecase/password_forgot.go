package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	pcentity "github.com/tenangapp/tenang/internal/passcode/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

type PasswordForgotInput struct {
	Identifier string `validate:"required,min=3,max=255"`
}

// PasswordForgot sends a reset code to the channel the identifier addresses.
// It answers the same way whether or not an account exists.
func (s *Usecase) PasswordForgot(ctx context.Context, in PasswordForgotInput) error {
	ctx, span := s.startSpan(ctx, "PasswordForgot")
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
		slog.WarnContext(ctx, "password reset requested for unavailable user", "identifier", in.Identifier)
		return nil
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to repo get user by identifier", "identifier", in.Identifier, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		slog.WarnContext(ctx, "password reset requested for ineligible user", "user_id", user.ID, "status", user.Status.String(), "error", err)
		return nil
	}

	// Reset codes only go to channels the user has proven they own.
	switch {
	case ch == pcentity.ChannelEmail && user.EmailVerifiedAt == nil:
		slog.WarnContext(ctx, "password reset requested for unverified email", "user_id", user.ID)
		return nil
	case ch == pcentity.ChannelPhone && user.PhoneVerifiedAt == nil:
		slog.WarnContext(ctx, "password reset requested for unverified phone", "user_id", user.ID)
		return nil
	}

	return s.issueAndPublish(ctx, user.ID, ch, in.Identifier, pcentity.PurposePasswordReset)
}
