package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tenangapp/tenang/internal/identity/entity"
	pcentity "github.com/tenangapp/tenang/internal/passcode/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

type LoginOTPSendInput struct {
	Phone string `validate:"required,e164"`
}

// LoginOTPSend starts a passwordless login by texting a code to a verified
// phone number. The response never reveals whether the number is registered.
func (s *Usecase) LoginOTPSend(ctx context.Context, in LoginOTPSendInput) error {
	ctx, span := s.startSpan(ctx, "LoginOTPSend")
	defer span.End()

	in.Phone = strings.TrimSpace(in.Phone)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByPhone(ctx, in.Phone, false)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "phone not registered for otp login", "phone", in.Phone)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by phone", "error", err)
		return goerror.NewServer(err)
	}

	if user.Status != entity.UserStatusActive {
		slog.WarnContext(ctx, "failed to process otp login send", "user_id", user.ID, "status", user.Status.String())
		return nil
	}

	if user.PhoneVerifiedAt == nil {
		slog.WarnContext(ctx, "otp login requested for unverified phone", "user_id", user.ID)
		return nil
	}

	return s.issueAndPublish(ctx, user.ID, pcentity.ChannelPhone, in.Phone, pcentity.PurposeLogin)
}
