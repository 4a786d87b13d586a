package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/tenangapp/tenang/internal/notification/entity"
)

func (s *DB) RegisterUserDevice(ctx context.Context, userID int64, deviceToken, platform string) (err error) {
	ctx, span := s.startSpan(ctx, "RegisterUserDevice")
	defer func() { s.endSpan(span, err) }()

	query := `
		INSERT INTO notification_user_devices (user_id, device_token, platform)
		VALUES ($1, $2, $3)
		ON CONFLICT (device_token)
		DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform, updated_at = now()`

	_, err = s.conn.Exec(ctx, query, userID, deviceToken, platform)
	return s.mapError(err)
}

func (s *DB) CreateNotification(ctx context.Context, data entity.CreateNotification) (err error) {
	ctx, span := s.startSpan(ctx, "CreateNotification")
	defer func() { s.endSpan(span, err) }()

	query := `
		INSERT INTO notifications (id, user_id, category_id, trigger_key, data, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = s.conn.Exec(ctx, query,
		data.ID, data.UserID, data.CategoryID, data.TriggerKey.String(), data.Data, data.Metadata)
	return s.mapError(err)
}

func (s *DB) CreateNotificationWithDeliveryLog(ctx context.Context, n entity.CreateNotification, dl entity.CreateDeliveryLog) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CreateNotificationWithDeliveryLog")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	insertNotification := `
		INSERT INTO notifications (id, user_id, category_id, trigger_key, data, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := tx.Exec(ctx, insertNotification,
		n.ID, n.UserID, n.CategoryID, n.TriggerKey.String(), n.Data, n.Metadata); err != nil {
		return 0, s.mapError(err)
	}

	insertDeliveryLog := `
		INSERT INTO notification_delivery_logs (notification_id, channel, status)
		VALUES ($1, $2, $3)
		RETURNING id`

	var logID int64
	if err := tx.QueryRow(ctx, insertDeliveryLog,
		dl.NotificationID, int16(dl.Channel), int16(dl.Status)).Scan(&logID); err != nil {
		return 0, s.mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return logID, nil
}
