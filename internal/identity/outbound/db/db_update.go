package db

import (
	"context"

	"github.com/tenangapp/tenang/internal/identity/entity"
)

func (s *DB) RevokeRefreshToken(ctx context.Context, token string) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeRefreshToken")
	defer func() { s.endSpan(span, err) }()

	query := `UPDATE identity_refresh_tokens SET revoked = TRUE WHERE token = $1 AND revoked = FALSE`

	_, err = s.conn.Exec(ctx, query, token)
	return s.mapError(err)
}

func (s *DB) RevokeAllRefreshToken(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeAllRefreshToken")
	defer func() { s.endSpan(span, err) }()

	query := `UPDATE identity_refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND revoked = FALSE`

	_, err = s.conn.Exec(ctx, query, userID)
	return s.mapError(err)
}

func (s *DB) MarkMFABackupCodeUsed(ctx context.Context, bcID, userID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkMFABackupCodeUsed")
	defer func() { s.endSpan(span, err) }()

	query := `
		UPDATE identity_mfa_backup_codes
		SET used_at = now()
		WHERE id = $1 AND user_id = $2 AND used_at IS NULL`

	tag, err := s.conn.Exec(ctx, query, bcID, userID)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *DB) UpdateMFALastUsedAt(ctx context.Context, factorID, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateMFALastUsedAt")
	defer func() { s.endSpan(span, err) }()

	query := `UPDATE identity_mfa_factors SET last_used_at = now() WHERE id = $1 AND user_id = $2`

	_, err = s.conn.Exec(ctx, query, factorID, userID)
	return s.mapError(err)
}

func (s *DB) UpdateUserProfile(ctx context.Context, id int64, fullName string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserProfile")
	defer func() { s.endSpan(span, err) }()

	query := `
		UPDATE identity_users
		SET full_name = $2, updated_by = $1, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	_, err = s.conn.Exec(ctx, query, id, fullName)
	return s.mapError(err)
}

func (s *DB) UpdateUserAvatar(ctx context.Context, id int64, avatarURL string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserAvatar")
	defer func() { s.endSpan(span, err) }()

	query := `
		UPDATE identity_users
		SET avatar_url = $2, updated_by = $1, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	_, err = s.conn.Exec(ctx, query, id, avatarURL)
	return s.mapError(err)
}

func (s *DB) UpdateUserCredential(ctx context.Context, userID int64, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserCredential")
	defer func() { s.endSpan(span, err) }()

	query := `UPDATE identity_user_credentials SET password = $2, updated_at = now() WHERE user_id = $1`

	_, err = s.conn.Exec(ctx, query, userID, hash)
	err = s.mapError(err)
	return err
}

func (s *DB) VerifyUserEmail(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "VerifyUserEmail")
	defer func() { s.endSpan(span, err) }()

	query := `
		UPDATE identity_users
		SET email_verified_at = COALESCE(email_verified_at, now()),
		    status = CASE WHEN status = $2 THEN $3 ELSE status END,
		    updated_by = $1, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	_, err = s.conn.Exec(ctx, query, userID,
		int16(entity.UserStatusUnverified), int16(entity.UserStatusActive))
	return s.mapError(err)
}

func (s *DB) VerifyUserPhone(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "VerifyUserPhone")
	defer func() { s.endSpan(span, err) }()

	query := `
		UPDATE identity_users
		SET phone_verified_at = COALESCE(phone_verified_at, now()),
		    status = CASE WHEN status = $2 THEN $3 ELSE status END,
		    updated_by = $1, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	_, err = s.conn.Exec(ctx, query, userID,
		int16(entity.UserStatusUnverified), int16(entity.UserStatusActive))
	return s.mapError(err)
}
