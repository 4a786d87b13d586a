package db

import (
	"context"

	"github.com/tenangapp/tenang/internal/passcode/entity"
)

// FindActive returns the most recent entry that is still verifiable: unused,
// unexpired, attempts under the cap. Dead entries are invisible here, which
// is what keeps the not-found answer coarse.
func (s *DB) FindActive(ctx context.Context, userID int64, channel entity.Channel, purpose entity.Purpose) (_ *entity.Passcode, err error) {
	ctx, span := s.startSpan(ctx, "FindActive")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `
		SELECT id, user_id, channel, purpose, address, code, used, attempts, expires_at, created_at
		FROM passcodes
		WHERE user_id = $1 AND channel = $2 AND purpose = $3
			AND used = FALSE AND expires_at > now() AND attempts < $4
		ORDER BY created_at DESC
		LIMIT 1`,
		userID, int16(channel), int16(purpose), entity.MaxAttempts,
	)

	var (
		pc         entity.Passcode
		rawChannel int16
		rawPurpose int16
	)
	err = row.Scan(
		&pc.ID,
		&pc.UserID,
		&rawChannel,
		&rawPurpose,
		&pc.Address,
		&pc.Code,
		&pc.Used,
		&pc.Attempts,
		&pc.ExpiresAt,
		&pc.CreatedAt,
	)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	pc.Channel = entity.Channel(rawChannel)
	pc.Purpose = entity.Purpose(rawPurpose)

	return &pc, nil
}
