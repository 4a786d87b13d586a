package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

type DeviceRegisterInput struct {
	DeviceToken string `validate:"required"`
	Platform    string `validate:"required,oneof=android ios web"`
}

// DeviceRegister binds a push token to the caller. Re-registering the same
// token is an upsert at the repo level, so app reinstalls just work.
func (s *Usecase) DeviceRegister(ctx context.Context, in DeviceRegisterInput) error {
	ctx, span := s.startSpan(ctx, "DeviceRegister")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return err
	}

	in.DeviceToken = strings.TrimSpace(in.DeviceToken)
	in.Platform = strings.ToLower(strings.TrimSpace(in.Platform))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if err := s.repoDB.RegisterUserDevice(ctx, clm.UserID, in.DeviceToken, in.Platform); err != nil {
		slog.ErrorContext(ctx, "failed to repo register device token", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
