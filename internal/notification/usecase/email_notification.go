package usecase

import (
	"context"
	"log/slog"

	"github.com/tenangapp/tenang/internal/notification/entity"
	"github.com/tenangapp/tenang/internal/pkg/mail"
	"github.com/tenangapp/tenang/internal/pkg/valueobject"
)

type emailNotificationInput struct {
	UserID           int64
	Email            string
	TriggerKey       entity.TriggerKey
	TemplateData     map[string]any
	NotificationData valueobject.JSONMap
}

// sendEmailNotification renders the email template for the trigger and runs
// the shared delivery ladder with an SMTP send. Missing template means the
// trigger has no email leg configured, which is not an error.
func (s *Usecase) sendEmailNotification(ctx context.Context, in emailNotificationInput) {
	tpl := s.getTemplate(ctx, in.TriggerKey, entity.ChannelEmail)
	if tpl == nil {
		return
	}

	body, err := s.renderTemplate("body", tpl.Body, in.TemplateData)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render email body",
			"user_id", in.UserID, "trigger_key", in.TriggerKey.String(), "error", err)
		return
	}

	s.recordAndDispatch(ctx, deliveryJob{
		userID:     in.UserID,
		categoryID: tpl.CategoryID,
		triggerKey: in.TriggerKey,
		channel:    entity.ChannelEmail,
		record:     in.NotificationData,
		send: func(ctx context.Context) error {
			return s.repoMail.Send(ctx, mail.Message{
				To:       []string{in.Email},
				Subject:  tpl.Subject,
				HTMLBody: body,
			})
		},
	})
}
