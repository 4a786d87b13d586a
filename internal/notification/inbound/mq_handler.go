package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/tenangapp/tenang/internal/notification/usecase"
	"github.com/tenangapp/tenang/internal/pkg/idempotency"
	"github.com/tenangapp/tenang/internal/pkg/instrument"
	"github.com/tenangapp/tenang/internal/pkg/messaging"
	"github.com/tenangapp/tenang/internal/pkg/uid"
	"github.com/tenangapp/tenang/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

// Redeliveries of the same message carry the same correlation id, so a
// completed-state window of a few minutes is enough to drop duplicates.
const dedupeStateTTL = 10 * time.Minute

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	idem idempotency.Idempotency
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// dedupe runs fn at most once per correlation id. A message without a
// correlation id gets a fresh one, so it always looks new and fn runs.
func (h *MQHandler) dedupe(ctx context.Context, consumer string, fn func(context.Context) error) error {
	key := "notification:" + consumer + ":" + instrument.GetCorrelationID(ctx)

	err := h.idem.Exec(ctx, key, fn, idempotency.WithStateTTL(dedupeStateTTL))
	switch {
	case errors.Is(err, idempotency.ErrAlreadyCompleted), errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.InfoContext(ctx, "Skipping duplicate message delivery", "consumer", consumer)
		return nil
	case errors.Is(err, idempotency.ErrAlreadyFailed):
		// the failed state expires with the TTL, a later redelivery retries
		slog.WarnContext(ctx, "Skipping recently failed message delivery", "consumer", consumer)
		return nil
	}

	return err
}

func (h *MQHandler) PasscodeIssuedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "PasscodeIssuedNotification")
	defer span.End()

	// The body carries the plain code; it must stay out of the logs.
	var payload event.PasscodeIssuedMessage
	if err := json.Unmarshal(msg.Body(), &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of passcode issued notification", "error", err)
		return nil
	}

	slog.InfoContext(ctx, "consume: passcode issued notification",
		"user_id", payload.UserID, "channel", payload.Channel, "purpose", payload.Purpose)

	return h.dedupe(ctx, event.PasscodeIssuedConsumerNotification, func(ctx context.Context) error {
		if err := h.uc.ConsumePasscodeIssued(ctx, usecase.ConsumePasscodeIssuedInput{
			UserID:      payload.UserID,
			Channel:     payload.Channel,
			Address:     payload.Address,
			Purpose:     payload.Purpose,
			Code:        payload.Code,
			ExpiresAt:   payload.ExpiresAt,
			RequestedAt: payload.RequestedAt,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to consume passcode issued",
				"user_id", payload.UserID, "channel", payload.Channel, "purpose", payload.Purpose, "error", err)
			return err
		}

		return nil
	})
}

func (h *MQHandler) UserRegisteredNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "UserRegisteredNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: user registered notification", "msg_body", string(body))

	var payload event.UserRegisteredMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of user registered notification", "msg_body", string(body), "error", err)
		return nil
	}

	return h.dedupe(ctx, event.UserRegisteredConsumerNotification, func(ctx context.Context) error {
		if err := h.uc.ConsumeUserRegistered(ctx, usecase.ConsumeUserRegisteredInput{
			UserID:   payload.UserID,
			Email:    payload.Email,
			FullName: payload.FullName,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to consume user registered", "msg_body", string(body), "error", err)
			return err
		}

		return nil
	})
}

func (h *MQHandler) PasswordChangedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "PasswordChangedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: password changed notification", "msg_body", string(body))

	var payload event.PasswordChangedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of password changed notification", "msg_body", string(body), "error", err)
		return nil
	}

	return h.dedupe(ctx, event.PasswordChangedConsumerNotification, func(ctx context.Context) error {
		if err := h.uc.ConsumePasswordChanged(ctx, usecase.ConsumePasswordChangedInput{
			UserID:    payload.UserID,
			Email:     payload.Email,
			ChangedAt: payload.ChangedAt,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to consume password changed", "msg_body", string(body), "error", err)
			return err
		}

		return nil
	})
}
