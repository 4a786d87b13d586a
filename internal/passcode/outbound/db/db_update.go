package db

import (
	"context"
)

// IncrementAttempts bumps the counter only when it still holds the value the
// caller read. Reports false on a lost race so the caller can re-read.
func (s *DB) IncrementAttempts(ctx context.Context, id int64, expected int16) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "IncrementAttempts")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE passcodes
		SET attempts = attempts + 1
		WHERE id = $1 AND attempts = $2 AND used = FALSE`,
		id, expected,
	)
	if err != nil {
		err = s.mapError(err)
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

// MarkUsed flips the terminal flag. Reports false when another verifier got
// there first, so consumption stays single-use under races.
func (s *DB) MarkUsed(ctx context.Context, id int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkUsed")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE passcodes
		SET used = TRUE
		WHERE id = $1 AND used = FALSE`,
		id,
	)
	if err != nil {
		err = s.mapError(err)
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}
