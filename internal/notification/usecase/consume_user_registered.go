package usecase

import (
	"context"
	"log/slog"

	"github.com/tenangapp/tenang/internal/notification/entity"
	"github.com/tenangapp/tenang/internal/pkg/valueobject"
)

type (
	ConsumeUserRegisteredInput struct {
		UserID   int64  `validate:"required,gt=0"`
		Email    string `validate:"required,email"`
		FullName string `validate:"required,min=5,max=100,alphaspace"`
	}
)

// ConsumeUserRegistered greets a fresh account with a welcome email and an
// in-app inbox item.
func (s *Usecase) ConsumeUserRegistered(ctx context.Context, in ConsumeUserRegisteredInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeUserRegistered")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	data := s.baseTemplateData()
	data["full_name"] = in.FullName

	s.sendEmailNotification(ctx, emailNotificationInput{
		UserID:       in.UserID,
		Email:        in.Email,
		TriggerKey:   entity.TriggerKeyUserWelcome,
		TemplateData: data,
		NotificationData: valueobject.JSONMap{
			"user_id":   in.UserID,
			"email":     in.Email,
			"full_name": in.FullName,
		},
	})
	s.createInboxNotification(ctx, in.UserID, entity.TriggerKeyUserWelcome, valueobject.JSONMap{"full_name": in.FullName})

	return nil
}
