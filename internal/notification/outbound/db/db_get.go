package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/tenangapp/tenang/internal/notification/entity"
)

func (s *DB) GetTemplateByTriggerChannel(ctx context.Context, tk entity.TriggerKey, ch entity.Channel) (_ *entity.Template, err error) {
	ctx, span := s.startSpan(ctx, "GetTemplateByTriggerChannel")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT id, trigger_key, category_id, channel, subject, body
		FROM notification_templates
		WHERE trigger_key = $1 AND channel = $2`

	var (
		item       entity.Template
		rawTrigger string
		rawChannel int16
	)

	err = s.conn.QueryRow(ctx, query, tk.String(), int16(ch)).
		Scan(&item.ID, &rawTrigger, &item.CategoryID, &rawChannel, &item.Subject, &item.Body)
	if err != nil {
		return nil, s.mapError(err)
	}

	item.TriggerKey = entity.TriggerKey(rawTrigger)
	item.Channel = entity.Channel(rawChannel)

	return &item, nil
}

func (s *DB) ListNotifications(ctx context.Context, userID int64, status entity.NotificationStatus, limit, offset int32) (_ []entity.NotificationItem, err error) {
	ctx, span := s.startSpan(ctx, "ListNotifications")
	defer func() { s.endSpan(span, err) }()

	where := "user_id = $1 AND deleted_at IS NULL"
	switch status {
	case entity.NotificationStatusUnread:
		where += " AND read_at IS NULL"
	case entity.NotificationStatusRead:
		where += " AND read_at IS NOT NULL"
	}

	query := `
		SELECT id, category_id, trigger_key, data, metadata, read_at, created_at
		FROM notifications
		WHERE ` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.conn.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := make([]entity.NotificationItem, 0, limit)
	for rows.Next() {
		var (
			item       entity.NotificationItem
			rawTrigger string
			readAt     pgtype.Timestamptz
		)
		if err := rows.Scan(&item.ID, &item.CategoryID, &rawTrigger, &item.Data, &item.Metadata, &readAt, &item.CreatedAt); err != nil {
			return nil, s.mapError(err)
		}

		item.TriggerKey = entity.TriggerKey(rawTrigger)
		if readAt.Valid {
			t := readAt.Time
			item.ReadAt = &t
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}

func (s *DB) CountUnreadNotifications(ctx context.Context, userID int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountUnreadNotifications")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT count(*)
		FROM notifications
		WHERE user_id = $1 AND read_at IS NULL AND deleted_at IS NULL`

	var count int64
	err = s.conn.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		return 0, s.mapError(err)
	}

	return count, nil
}
