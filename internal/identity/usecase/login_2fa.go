package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tenangapp/tenang/internal/identity/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/pkg/mfa"
)

type Login2FAInput struct {
	ChallengeToken string         `validate:"required"`
	Method         entity.MFAType `validate:"required"`
	Code           string         `validate:"required"`
}

type Login2FAOutput struct {
	AccessToken  string
	RefreshToken string
}

// Login2FA redeems a pending MFA login challenge. Every rejection shares one
// coarse message so callers cannot probe which part failed.
func (s *Usecase) Login2FA(ctx context.Context, in Login2FAInput) (*Login2FAOutput, error) {
	ctx, span := s.startSpan(ctx, "Login2FA")
	defer span.End()

	in.Code = strings.TrimSpace(in.Code)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.Method == entity.MFATypeUnknown || in.Method == entity.MFATypeSMS {
		slog.WarnContext(ctx, "method not supported", "method", in.Method.String())
		return nil, goerror.NewBusiness("method not supported", goerror.CodeUnauthorized)
	}

	// Shape check before touching storage.
	if in.Method == entity.MFATypeTOTP && !looksLikeTOTP(in.Code) {
		slog.WarnContext(ctx, "totp code format is not valid")
		return nil, errChallengeRejected()
	}

	cu, err := s.pendingLoginChallenge(ctx, in.ChallengeToken)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUserStatusAllowed(ctx, cu.UserID, cu.UserStatus); err != nil {
		return nil, err
	}

	factors, err := s.activeFactors(ctx, cu.UserID)
	if err != nil {
		return nil, err
	}

	switch in.Method {
	case entity.MFATypeTOTP:
		err = s.checkTOTPCode(ctx, cu.UserID, factors, in.Code)
	case entity.MFATypeBackupCode:
		err = s.consumeBackupCode(ctx, cu.UserID, factors, in.Code)
	}
	if err != nil {
		return nil, err
	}

	return s.redeemChallenge(ctx, cu)
}

// errChallengeRejected is the single answer for anything wrong with a
// challenge redemption: bad token, missing factor, wrong or replayed code.
func errChallengeRejected() error {
	return goerror.NewBusiness("invalid challenge session or code", goerror.CodeUnauthorized)
}

// looksLikeTOTP reports whether the code is exactly six ASCII digits.
func looksLikeTOTP(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (s *Usecase) pendingLoginChallenge(ctx context.Context, token string) (*entity.ChallengeUser, error) {
	tokenHash, err := s.hmac.Hash(token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash challenge token", "error", err)
		return nil, goerror.NewServer(err)
	}

	cu, err := s.repoDB.GetChallengeUserByTokenPurpose(ctx, string(tokenHash), entity.ChallengePurposeMFALogin)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "challenge user not found", "challenge_token", string(tokenHash))
		return nil, errChallengeRejected()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get challenge user by token purpose", "challenge_token", string(tokenHash), "error", err)
		return nil, goerror.NewServer(err)
	}

	return cu, nil
}

func (s *Usecase) activeFactors(ctx context.Context, userID int64) ([]entity.MFAFactor, error) {
	factors, err := s.repoDB.GetMFAFactorByUserID(ctx, userID, true)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get mfa factor by user_id", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if len(factors) == 0 {
		slog.WarnContext(ctx, "no verified mfa factor", "user_id", userID)
		return nil, errChallengeRejected()
	}

	return factors, nil
}

func findFactor(factors []entity.MFAFactor, t entity.MFAType) *entity.MFAFactor {
	for i := range factors {
		if factors[i].Type == t {
			return &factors[i]
		}
	}
	return nil
}

func (s *Usecase) checkTOTPCode(ctx context.Context, userID int64, factors []entity.MFAFactor, code string) error {
	factor := findFactor(factors, entity.MFATypeTOTP)
	if factor == nil {
		slog.WarnContext(ctx, "mfa factor for totp not found", "user_id", userID)
		return errChallengeRejected()
	}

	seed, err := s.mfaEncryptor.Decrypt(factor.Secret, mfa.Scope{
		UserID:  userID,
		Purpose: mfa.PurposeOTPSeed,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to decrypt totp secret", "user_id", userID, "mfa_id", factor.ID, "error", err)
		return goerror.NewServer(err)
	}

	if !s.totp.Validate(code, string(seed), s.clock.Now()) {
		slog.WarnContext(ctx, "invalid totp code", "user_id", userID, "mfa_id", factor.ID)
		return errChallengeRejected()
	}

	return s.touchFactor(ctx, factor.ID, userID)
}

func (s *Usecase) consumeBackupCode(ctx context.Context, userID int64, factors []entity.MFAFactor, code string) error {
	factor := findFactor(factors, entity.MFATypeBackupCode)
	if factor == nil {
		slog.WarnContext(ctx, "mfa factor for backup code not found", "user_id", userID)
		return errChallengeRejected()
	}

	codes, err := s.repoDB.GetMFABackupCodeByUserID(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get backup code by user id", "user_id", userID, "error", err)
		return goerror.NewServer(err)
	}

	var match *entity.MFABackupCode
	for i := range codes {
		if s.argon2id.Verify(codes[i].Code, code) {
			match = &codes[i]
			break
		}
	}
	if match == nil {
		slog.WarnContext(ctx, "backup code mismatch", "user_id", userID)
		return errChallengeRejected()
	}

	// The row flips to used atomically, a replayed code loses the race.
	fresh, err := s.repoDB.MarkMFABackupCodeUsed(ctx, match.ID, match.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to consume backup code", "user_id", userID, "error", err)
		return goerror.NewServer(err)
	}
	if !fresh {
		slog.WarnContext(ctx, "backup code already used", "user_id", userID)
		return errChallengeRejected()
	}

	return s.touchFactor(ctx, factor.ID, userID)
}

func (s *Usecase) touchFactor(ctx context.Context, factorID, userID int64) error {
	if err := s.repoDB.UpdateMFALastUsedAt(ctx, factorID, userID); err != nil {
		slog.ErrorContext(ctx, "failed to update mfa last_used_at", "user_id", userID, "mfa_id", factorID, "error", err)
		return goerror.NewServer(err)
	}
	return nil
}

// redeemChallenge turns a passed challenge into a session. The refresh token
// insert and the challenge consumption commit together.
func (s *Usecase) redeemChallenge(ctx context.Context, cu *entity.ChallengeUser) (*Login2FAOutput, error) {
	acToken, err := s.jwt.Generate(cu.UserID, cu.UserEmail)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", cu.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	refToken := s.oid.Generate()
	refTokenHash, err := s.hmac.Hash(refToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "user_id", cu.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	refresh := entity.RefreshToken{
		ID:        s.uid.Generate(),
		UserID:    cu.UserID,
		Token:     string(refTokenHash),
		ExpiresAt: s.clock.Now().Add(s.cfg.GetDay("modules.identity.refresh_token_ttl_days")),
	}

	if err := s.repoDB.NewRefreshToken(ctx, refresh, cu.ChallengeID); err != nil {
		slog.ErrorContext(ctx, "failed to repo new refresh token user", "user_id", cu.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &Login2FAOutput{
		AccessToken:  acToken,
		RefreshToken: refToken,
	}, nil
}
