package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/tenangapp/tenang/internal/notification/entity"
	"github.com/tenangapp/tenang/internal/pkg/valueobject"
)

type (
	ConsumePasscodeIssuedInput struct {
		UserID      int64     `validate:"required,gt=0"`
		Channel     string    `validate:"required,oneof=email phone"`
		Address     string    `validate:"required"`
		Purpose     string    `validate:"required,oneof=verification password_reset login"`
		Code        string    `validate:"required,len=6,numeric"`
		ExpiresAt   time.Time `validate:"required"`
		RequestedAt time.Time
	}
)

// ConsumePasscodeIssued delivers a one time code to the requested contact
// address. The code goes into the rendered body only; log lines and stored
// notification rows never carry it.
func (s *Usecase) ConsumePasscodeIssued(ctx context.Context, in ConsumePasscodeIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumePasscodeIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "user_id", in.UserID, "channel", in.Channel, "purpose", in.Purpose, "error", err)
		return nil
	}

	data := s.baseTemplateData()
	data["code"] = in.Code
	data["purpose"] = in.Purpose
	data["expires_minutes"] = expiresMinutes(s.clock.Now(), in.ExpiresAt)

	record := valueobject.JSONMap{
		"purpose": in.Purpose,
		"channel": in.Channel,
	}

	switch in.Channel {
	case "email":
		s.sendEmailNotification(ctx, emailNotificationInput{
			UserID:           in.UserID,
			Email:            in.Address,
			TriggerKey:       passcodeTriggerKey(in.Purpose),
			TemplateData:     data,
			NotificationData: record,
		})
	case "phone":
		s.sendSMSNotification(ctx, smsNotificationInput{
			UserID:           in.UserID,
			Phone:            in.Address,
			TriggerKey:       passcodeTriggerKey(in.Purpose),
			TemplateData:     data,
			NotificationData: record,
		})
	}

	return nil
}

func passcodeTriggerKey(purpose string) entity.TriggerKey {
	switch purpose {
	case "password_reset":
		return entity.TriggerKeyPasscodePasswordReset
	case "login":
		return entity.TriggerKeyPasscodeLogin
	default:
		return entity.TriggerKeyPasscodeVerification
	}
}

// expiresMinutes rounds the remaining lifetime up so the message never claims
// less time than the code actually has.
func expiresMinutes(now, expiresAt time.Time) int {
	left := expiresAt.Sub(now)
	if left <= 0 {
		return 1
	}

	minutes := int((left + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}

	return minutes
}
