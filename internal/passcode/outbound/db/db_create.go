package db

import (
	"context"

	"github.com/tenangapp/tenang/internal/passcode/entity"
)

func (s *DB) Create(ctx context.Context, pc entity.Passcode) (err error) {
	ctx, span := s.startSpan(ctx, "Create")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO passcodes (id, user_id, channel, purpose, address, code, used, attempts, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		pc.ID,
		pc.UserID,
		int16(pc.Channel),
		int16(pc.Purpose),
		pc.Address,
		pc.Code,
		pc.Used,
		pc.Attempts,
		pc.ExpiresAt,
		pc.CreatedAt,
	)

	err = s.mapError(err)
	return err
}
