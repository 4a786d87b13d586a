package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/tenangapp/tenang/internal/identity/entity"
)

func (s *DB) GetUserLoginInfo(ctx context.Context, identifier string) (_ *entity.UserLoginInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserLoginInfo")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT u.id, u.email, u.status, c.password,
		       EXISTS (
		           SELECT 1 FROM identity_mfa_factors f
		           WHERE f.user_id = u.id AND f.is_verified
		       ) AS has_mfa
		FROM identity_users u
		JOIN identity_user_credentials c ON c.user_id = u.id
		WHERE (u.email = $1 OR u.phone = $1) AND u.deleted_at IS NULL`

	var (
		item      entity.UserLoginInfo
		rawStatus int16
	)

	err = s.conn.QueryRow(ctx, query, identifier).
		Scan(&item.ID, &item.Email, &rawStatus, &item.Password, &item.HasMFA)
	if err != nil {
		return nil, s.mapError(err)
	}

	item.Status = entity.UserStatus(rawStatus)

	return &item, nil
}

func (s *DB) GetUserCredentialInfo(ctx context.Context, id int64) (_ *entity.UserCredentialInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserCredentialInfo")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT u.id, u.email, u.status, c.password
		FROM identity_users u
		JOIN identity_user_credentials c ON c.user_id = u.id
		WHERE u.id = $1 AND u.deleted_at IS NULL`

	var (
		item      entity.UserCredentialInfo
		rawStatus int16
	)

	err = s.conn.QueryRow(ctx, query, id).
		Scan(&item.ID, &item.Email, &rawStatus, &item.Password)
	if err != nil {
		return nil, s.mapError(err)
	}

	item.Status = entity.UserStatus(rawStatus)

	return &item, nil
}

func (s *DB) GetChallengeUserByTokenPurpose(ctx context.Context, token string, p entity.ChallengePurpose) (_ *entity.ChallengeUser, err error) {
	ctx, span := s.startSpan(ctx, "GetChallengeUserByTokenPurpose")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT c.id, c.purpose, c.token, c.metadata, u.id, u.email, u.status
		FROM identity_challenges c
		JOIN identity_users u ON u.id = c.user_id
		WHERE c.token = $1 AND c.purpose = $2 AND c.expires_at > now() AND u.deleted_at IS NULL`

	var (
		item       entity.ChallengeUser
		rawPurpose int16
		rawStatus  int16
	)

	err = s.conn.QueryRow(ctx, query, token, int16(p)).Scan(
		&item.ChallengeID, &rawPurpose, &item.ChallengeToken, &item.ChallengeMetadata,
		&item.UserID, &item.UserEmail, &rawStatus,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	item.ChallengePurpose = entity.ChallengePurpose(rawPurpose)
	item.UserStatus = entity.UserStatus(rawStatus)

	return &item, nil
}

func (s *DB) GetUserRefreshToken(ctx context.Context, token string) (_ *entity.UserRefreshToken, err error) {
	ctx, span := s.startSpan(ctx, "GetUserRefreshToken")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT u.id, u.email, u.status, r.id, r.token, r.revoked, r.replaced_by_token_id, r.expires_at
		FROM identity_refresh_tokens r
		JOIN identity_users u ON u.id = r.user_id
		WHERE r.token = $1 AND u.deleted_at IS NULL`

	var (
		item              entity.UserRefreshToken
		rawStatus         int16
		replacedByTokenID pgtype.Int8
		expiresAt         pgtype.Timestamptz
	)

	err = s.conn.QueryRow(ctx, query, token).Scan(
		&item.UserID, &item.UserEmail, &rawStatus,
		&item.RefreshID, &item.RefreshToken, &item.RefreshRevoked, &replacedByTokenID, &expiresAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	item.UserStatus = entity.UserStatus(rawStatus)
	if replacedByTokenID.Valid {
		item.RefreshReplacedByTokenID = &replacedByTokenID.Int64
	}
	item.RefreshExpiresAt = expiresAt.Time

	return &item, nil
}

func (s *DB) GetUserByEmail(ctx context.Context, email string, includeDeleted bool) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	item, err := s.getUserByContact(ctx, "email", email, includeDeleted)
	return item, err
}

func (s *DB) GetUserByPhone(ctx context.Context, phone string, includeDeleted bool) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByPhone")
	defer func() { s.endSpan(span, err) }()

	item, err := s.getUserByContact(ctx, "phone", phone, includeDeleted)
	return item, err
}

// getUserByContact looks a user up by one contact column. The column name is
// always a compile time constant, never caller input.
func (s *DB) getUserByContact(ctx context.Context, column, value string, includeDeleted bool) (*entity.User, error) {
	query := `
		SELECT id, email, phone, full_name, avatar_url, status,
		       email_verified_at, phone_verified_at, updated_at, deleted_at
		FROM identity_users
		WHERE ` + column + ` = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	var (
		item            entity.User
		rawStatus       int16
		emailVerifiedAt pgtype.Timestamptz
		phoneVerifiedAt pgtype.Timestamptz
		updatedAt       pgtype.Timestamptz
		deletedAt       pgtype.Timestamptz
	)

	err := s.conn.QueryRow(ctx, query, value).Scan(
		&item.ID, &item.Email, &item.Phone, &item.FullName, &item.AvatarURL,
		&rawStatus, &emailVerifiedAt, &phoneVerifiedAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	item.Status = entity.UserStatus(rawStatus)
	if emailVerifiedAt.Valid {
		item.EmailVerifiedAt = &emailVerifiedAt.Time
	}
	if phoneVerifiedAt.Valid {
		item.PhoneVerifiedAt = &phoneVerifiedAt.Time
	}
	if updatedAt.Valid {
		item.UpdatedAt = updatedAt.Time
	}
	if deletedAt.Valid {
		item.DeletedAt = &deletedAt.Time
	}

	return &item, nil
}

func (s *DB) GetMFAFactorByUserID(ctx context.Context, userID int64, isVerified bool) (_ []entity.MFAFactor, err error) {
	ctx, span := s.startSpan(ctx, "GetMFAFactorByUserID")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT id, user_id, type, friendly_name, secret, key_version, is_verified
		FROM identity_mfa_factors
		WHERE user_id = $1 AND is_verified = $2`

	rows, err := s.conn.Query(ctx, query, userID, isVerified)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	result := make([]entity.MFAFactor, 0)
	for rows.Next() {
		var (
			m       entity.MFAFactor
			rawType int16
		)

		if err = rows.Scan(&m.ID, &m.UserID, &rawType, &m.FriendlyName, &m.Secret, &m.KeyVersion, &m.IsVerified); err != nil {
			return nil, s.mapError(err)
		}

		m.Type = entity.MFAType(rawType)
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return result, nil
}

func (s *DB) GetMFABackupCodeByUserID(ctx context.Context, userID int64) (_ []entity.MFABackupCode, err error) {
	ctx, span := s.startSpan(ctx, "GetMFABackupCodeByUserID")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT id, user_id, code
		FROM identity_mfa_backup_codes
		WHERE user_id = $1 AND used_at IS NULL`

	rows, err := s.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := make([]entity.MFABackupCode, 0)
	for rows.Next() {
		var item entity.MFABackupCode

		if err = rows.Scan(&item.ID, &item.UserID, &item.Code); err != nil {
			return nil, s.mapError(err)
		}

		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}
