package usecase

import (
	"context"
	"log/slog"

	"github.com/tenangapp/tenang/internal/notification/entity"
	"github.com/tenangapp/tenang/internal/pkg/sms"
	"github.com/tenangapp/tenang/internal/pkg/valueobject"
)

type smsNotificationInput struct {
	UserID           int64
	Phone            string
	TriggerKey       entity.TriggerKey
	TemplateData     map[string]any
	NotificationData valueobject.JSONMap
}

// sendSMSNotification is the SMS leg of the delivery ladder. Bodies render
// through text/template: an SMS is plain text, HTML escaping would mangle it.
func (s *Usecase) sendSMSNotification(ctx context.Context, in smsNotificationInput) {
	tpl := s.getTemplate(ctx, in.TriggerKey, entity.ChannelSMS)
	if tpl == nil {
		return
	}

	body, err := s.renderTextTemplate("body", tpl.Body, in.TemplateData)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render sms body",
			"user_id", in.UserID, "trigger_key", in.TriggerKey.String(), "error", err)
		return
	}

	s.recordAndDispatch(ctx, deliveryJob{
		userID:     in.UserID,
		categoryID: tpl.CategoryID,
		triggerKey: in.TriggerKey,
		channel:    entity.ChannelSMS,
		record:     in.NotificationData,
		send: func(ctx context.Context) error {
			return s.repoSMS.Send(ctx, sms.Message{
				To:   in.Phone,
				Body: body,
			})
		},
	})
}
