package usecase

import (
	"context"
	"log/slog"

	"github.com/tenangapp/tenang/internal/notification/entity"
	"github.com/tenangapp/tenang/internal/pkg/valueobject"
)

// createInboxNotification stores an in-app inbox item when a template for the
// trigger exists.
func (s *Usecase) createInboxNotification(ctx context.Context, userID int64, tk entity.TriggerKey, data valueobject.JSONMap) {
	tpl := s.getTemplate(ctx, tk, entity.ChannelInApp)
	if tpl == nil {
		return
	}

	n := entity.CreateNotification{
		ID:         s.uid.Generate(),
		UserID:     userID,
		CategoryID: tpl.CategoryID,
		TriggerKey: tpl.TriggerKey,
		Data:       data,
		Metadata:   valueobject.JSONMap{},
	}
	if err := s.repoDB.CreateNotification(ctx, n); err != nil {
		slog.ErrorContext(ctx, "failed to repo create notification", "user_id", userID, "trigger_key", tk.String(), "error", err)
	}
}
