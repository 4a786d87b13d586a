package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/tenangapp/tenang/internal/identity/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

func (s *DB) NewRegistration(ctx context.Context, user entity.NewUser, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "NewRegistration")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	userQuery := `
		INSERT INTO identity_users (id, email, phone, full_name, avatar_url, status, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := tx.Exec(ctx, userQuery,
		user.ID, user.Email, user.Phone, user.FullName, user.AvatarURL,
		int16(user.Status), user.CreatedBy, user.UpdatedBy,
	); err != nil {
		return s.mapError(err)
	}

	credQuery := `INSERT INTO identity_user_credentials (user_id, password) VALUES ($1, $2)`

	if _, err := tx.Exec(ctx, credQuery, user.ID, hash); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) NewMFAFactorTOTP(ctx context.Context, fTOTP entity.MFAFactor, challengeID int64) (err error) {
	ctx, span := s.startSpan(ctx, "NewMFAFactorTOTP")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	factorQuery := `
		INSERT INTO identity_mfa_factors (id, user_id, type, friendly_name, secret, key_version, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := tx.Exec(ctx, factorQuery,
		fTOTP.ID, fTOTP.UserID, int16(fTOTP.Type), fTOTP.FriendlyName,
		fTOTP.Secret, fTOTP.KeyVersion, fTOTP.IsVerified,
	); err != nil {
		return s.mapError(err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM identity_challenges WHERE id = $1`, challengeID); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) NewRefreshToken(ctx context.Context, ref entity.RefreshToken, challengeID int64) (err error) {
	ctx, span := s.startSpan(ctx, "NewRefreshToken")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	tokenQuery := `
		INSERT INTO identity_refresh_tokens (id, user_id, token, expires_at, metadata)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := tx.Exec(ctx, tokenQuery,
		ref.ID, ref.UserID, ref.Token, ref.ExpiresAt, ref.Metadata,
	); err != nil {
		return s.mapError(err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM identity_challenges WHERE id = $1`, challengeID); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) NewBackupCodes(ctx context.Context, userID int64, codes []entity.MFABackupCode, factor *entity.MFAFactor) (err error) {
	ctx, span := s.startSpan(ctx, "NewBackupCodes")
	defer func() { s.endSpan(span, err) }()

	if len(codes) == 0 {
		return nil
	}

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	if factor != nil {
		factorQuery := `
			INSERT INTO identity_mfa_factors (id, user_id, type, friendly_name, secret, key_version, is_verified)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`

		if _, err := tx.Exec(ctx, factorQuery,
			factor.ID, factor.UserID, int16(factor.Type), factor.FriendlyName,
			factor.Secret, factor.KeyVersion, factor.IsVerified,
		); err != nil {
			return s.mapError(err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM identity_mfa_backup_codes WHERE user_id = $1`, userID); err != nil {
		return s.mapError(err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"identity_mfa_backup_codes"},
		[]string{"id", "user_id", "code"},
		pgx.CopyFromSlice(len(codes), func(i int) ([]any, error) {
			return []any{codes[i].ID, codes[i].UserID, codes[i].Code}, nil
		}),
	)
	if err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) ResetUserPassword(ctx context.Context, userID int64, newHash string) (err error) {
	ctx, span := s.startSpan(ctx, "ResetUserPassword")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	credQuery := `UPDATE identity_user_credentials SET password = $2, updated_at = now() WHERE user_id = $1`

	if _, err := tx.Exec(ctx, credQuery, userID, newHash); err != nil {
		return s.mapError(err)
	}

	revokeQuery := `UPDATE identity_refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND revoked = FALSE`

	if _, err := tx.Exec(ctx, revokeQuery, userID); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "RotateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	replaceQuery := `
		UPDATE identity_refresh_tokens
		SET revoked = TRUE, replaced_by_token_id = $1
		WHERE id = $2 AND revoked = FALSE`

	tag, err := tx.Exec(ctx, replaceQuery, ro.NewID, ro.OldID)
	if err != nil {
		return s.mapError(err)
	}

	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	tokenQuery := `
		INSERT INTO identity_refresh_tokens (id, user_id, token, expires_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := tx.Exec(ctx, tokenQuery, ro.NewID, ro.UserID, ro.NewToken, ro.NewExpiresAt); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
