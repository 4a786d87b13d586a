package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/tenangapp/tenang/internal/notification/entity"
	"github.com/tenangapp/tenang/internal/pkg/valueobject"
)

// deliveryRetryDelay is how long a failed delivery waits before the retry
// sweep may pick it up again.
const deliveryRetryDelay = 2 * time.Minute

// deliveryJob is one rendered message bound for a single channel. The send
// closure owns the provider call so this file stays provider-agnostic.
type deliveryJob struct {
	userID     int64
	categoryID int64
	triggerKey entity.TriggerKey
	channel    entity.Channel
	record     valueobject.JSONMap
	send       func(ctx context.Context) error
}

// recordAndDispatch persists the notification with a queued delivery log,
// hands the message to the provider, then settles the log as sent or failed.
// Every failure is logged and swallowed: delivery is best-effort bookkeeping,
// never an error the consumer loop should see.
func (s *Usecase) recordAndDispatch(ctx context.Context, job deliveryJob) {
	n := entity.CreateNotification{
		ID:         s.uid.Generate(),
		UserID:     job.userID,
		CategoryID: job.categoryID,
		TriggerKey: job.triggerKey,
		Data:       job.record,
		Metadata:   valueobject.JSONMap{},
	}

	logID, err := s.repoDB.CreateNotificationWithDeliveryLog(ctx, n, entity.CreateDeliveryLog{
		NotificationID: n.ID,
		Channel:        job.channel,
		Status:         entity.DeliveryStatusQueued,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create notification+log",
			"user_id", job.userID, "trigger_key", job.triggerKey.String(), "channel", job.channel.String(), "error", err)
		return
	}

	sendErr := job.send(ctx)

	up := entity.UpdateDeliveryLog{
		ID:               logID,
		Status:           entity.DeliveryStatusSent,
		ProviderResponse: valueobject.JSONMap{},
	}
	if sendErr != nil {
		nextRetry := s.clock.Now().Add(deliveryRetryDelay)
		up.Status = entity.DeliveryStatusFailed
		up.ProviderResponse = valueobject.JSONMap{"error": sendErr.Error()}
		up.NextRetryAt = &nextRetry

		slog.ErrorContext(ctx, "failed to deliver notification",
			"log_id", logID, "user_id", job.userID, "trigger_key", job.triggerKey.String(),
			"channel", job.channel.String(), "error", sendErr)
	}

	if err := s.repoDB.UpdateDeliveryLogStatus(ctx, up); err != nil {
		slog.ErrorContext(ctx, "failed to repo update delivery log status",
			"log_id", logID, "status", up.Status.String(), "error", err)
	}
}
