package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/tenangapp/tenang/internal/notification/entity"
	"github.com/tenangapp/tenang/internal/pkg/valueobject"
)

type (
	ConsumePasswordChangedInput struct {
		UserID    int64     `validate:"required,gt=0"`
		Email     string    `validate:"required,email"`
		ChangedAt time.Time `validate:"required"`
	}
)

// ConsumePasswordChanged alerts the account owner that their password was
// changed, by email and in the in-app inbox.
func (s *Usecase) ConsumePasswordChanged(ctx context.Context, in ConsumePasswordChangedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumePasswordChanged")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	data := s.baseTemplateData()
	data["changed_at"] = in.ChangedAt.Format("02 Jan 2006 15:04 MST")

	s.sendEmailNotification(ctx, emailNotificationInput{
		UserID:       in.UserID,
		Email:        in.Email,
		TriggerKey:   entity.TriggerKeyPasswordChanged,
		TemplateData: data,
		NotificationData: valueobject.JSONMap{
			"user_id":    in.UserID,
			"email":      in.Email,
			"changed_at": in.ChangedAt.Format(time.RFC3339),
		},
	})
	s.createInboxNotification(ctx, in.UserID, entity.TriggerKeyPasswordChanged, valueobject.JSONMap{
		"changed_at": in.ChangedAt.Format(time.RFC3339),
	})

	return nil
}
