package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tenangapp/tenang/internal/identity/entity"
	pcentity "github.com/tenangapp/tenang/internal/passcode/entity"
	pcusecase "github.com/tenangapp/tenang/internal/passcode/usecase"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

type VerificationConfirmInput struct {
	Channel string `validate:"required,oneof=email phone"`
	Address string `validate:"required,min=3,max=255"`
	Code    string `validate:"required,len=6,numeric"`
}

// VerificationConfirm proves ownership of a contact address with a code and
// marks the channel verified. Verifying the first channel activates the
// account.
func (s *Usecase) VerificationConfirm(ctx context.Context, in VerificationConfirmInput) error {
	ctx, span := s.startSpan(ctx, "VerificationConfirm")
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
		return goerror.NewBusiness("Code is invalid or expired", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by contact", "channel", in.Channel, "error", err)
		return goerror.NewServer(err)
	}

	switch {
	case ch == pcentity.ChannelEmail && user.EmailVerifiedAt != nil:
		return nil
	case ch == pcentity.ChannelPhone && user.PhoneVerifiedAt != nil:
		return nil
	}

	if user.Status == entity.UserStatusBanned {
		slog.WarnContext(ctx, "banned account tried to verify contact", "user_id", user.ID)
		return goerror.NewBusiness("Account is banned", goerror.CodeForbidden)
	}

	if err := s.passcode.Verify(ctx, pcusecase.VerifyInput{
		UserID:  user.ID,
		Channel: ch,
		Purpose: pcentity.PurposeVerification,
		Code:    in.Code,
	}); err != nil {
		return s.mapPasscodeError(err)
	}

	if ch == pcentity.ChannelEmail {
		err = s.repoDB.VerifyUserEmail(ctx, user.ID)
	} else {
		err = s.repoDB.VerifyUserPhone(ctx, user.ID)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo verify user contact", "user_id", user.ID, "channel", in.Channel, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
