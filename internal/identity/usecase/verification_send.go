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

type VerificationSendInput struct {
	Channel string `validate:"required,oneof=email phone"`
	Address string `validate:"required,min=3,max=255"`
}

// VerificationSend issues a verification code for one of the user's contact
// addresses. It answers the same way whether or not the address is known.
func (s *Usecase) VerificationSend(ctx context.Context, in VerificationSendInput) error {
	ctx, span := s.startSpan(ctx, "VerificationSend")
	defer span.End()

	in.Channel = strings.TrimSpace(strings.ToLower(in.Channel))
	in.Address = strings.TrimSpace(in.Address)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	ch := pcentity.ChannelFromString(in.Channel)
	if ch == pcentity.ChannelEmail {
		in.Address = strings.ToLower(in.Address)
	}

	user, err := s.findUserByContact(ctx, ch, in.Address)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "address not registered for verification", "address", in.Address)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by contact", "channel", in.Channel, "error", err)
		return goerror.NewServer(err)
	}

	switch {
	case ch == pcentity.ChannelEmail && user.EmailVerifiedAt != nil:
		slog.WarnContext(ctx, "email already verified", "user_id", user.ID)
		return nil
	case ch == pcentity.ChannelPhone && user.PhoneVerifiedAt != nil:
		slog.WarnContext(ctx, "phone already verified", "user_id", user.ID)
		return nil
	}

	if user.Status == entity.UserStatusBanned || user.Status == entity.UserStatusInactive || user.Status.IsUnknown() {
		slog.WarnContext(ctx, "failed to process verification send", "user_id", user.ID, "status", user.Status.String())
		return nil
	}

	return s.issueAndPublish(ctx, user.ID, ch, in.Address, pcentity.PurposeVerification)
}
