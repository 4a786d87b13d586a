package db

import (
	"context"

	"github.com/tenangapp/tenang/internal/passcode/entity"
)

// DeleteUnused removes every not-yet-used entry for the tuple regardless of
// expiry or attempts. Idempotent: zero matches is not an error.
func (s *DB) DeleteUnused(ctx context.Context, userID int64, channel entity.Channel, purpose entity.Purpose) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteUnused")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		DELETE FROM passcodes
		WHERE user_id = $1 AND channel = $2 AND purpose = $3 AND used = FALSE`,
		userID, int16(channel), int16(purpose),
	)
	if err != nil {
		err = s.mapError(err)
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// DeleteExpired is the reaper sweep. Consumed entries age out with their
// expiry too, nothing reads them after that.
func (s *DB) DeleteExpired(ctx context.Context) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteExpired")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `DELETE FROM passcodes WHERE expires_at <= now()`)
	if err != nil {
		err = s.mapError(err)
		return 0, err
	}

	return tag.RowsAffected(), nil
}
