package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"

	"github.com/tenangapp/tenang/internal/identity/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/pkg/jwt"
	"github.com/tenangapp/tenang/internal/pkg/mfa"
)

type TOTPConfirmInput struct {
	ChallengeToken string `validate:"required"`
	Code           string `validate:"required,len=6,numeric"`
}

// totpEnrollment is the pending factor TOTPSetup parked in the challenge
// metadata.
type totpEnrollment struct {
	ciphertext   []byte
	friendlyName string
	keyVersion   int16
}

// TOTPConfirm activates the factor provisioned by TOTPSetup once the user
// proves the authenticator produces matching codes.
func (s *Usecase) TOTPConfirm(ctx context.Context, in TOTPConfirmInput) error {
	ctx, span := s.startSpan(ctx, "TOTPConfirm")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	tokenHash, err := s.hmac.Hash(in.ChallengeToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash challenge token", "error", err)
		return goerror.NewServer(err)
	}

	cu, err := s.repoDB.GetChallengeUserByTokenPurpose(ctx, string(tokenHash), entity.ChallengePurposeMFASetupConfirm)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "challenge user not found", "challenge_token", string(tokenHash))
		return goerror.NewBusiness("invalid challenge session", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get challenge user by token purpose", "challenge_token", string(tokenHash), "error", err)
		return goerror.NewServer(err)
	}

	if cu.UserID != clm.UserID {
		slog.WarnContext(ctx, "challenge user mismatch", "user_id", clm.UserID, "challenge_user_id", cu.UserID)
		return goerror.NewBusiness("invalid challenge session", goerror.CodeUnauthorized)
	}
	if err := s.ensureUserStatusAllowed(ctx, cu.UserID, cu.UserStatus); err != nil {
		return err
	}

	enr, err := s.parseEnrollment(ctx, cu)
	if err != nil {
		return err
	}

	if err := s.ensureNoTOTPFactor(ctx, cu.UserID); err != nil {
		return err
	}

	seed, err := s.mfaEncryptor.Decrypt(enr.ciphertext, mfa.Scope{
		UserID:  cu.UserID,
		Purpose: mfa.PurposeOTPSeed,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to decrypt totp secret", "user_id", cu.UserID, "challenge_id", cu.ChallengeID, "error", err)
		return goerror.NewServer(err)
	}

	if !s.totp.Validate(in.Code, string(seed), s.clock.Now()) {
		slog.WarnContext(ctx, "invalid totp code", "user_id", cu.UserID, "challenge_id", cu.ChallengeID)
		return goerror.NewBusiness("invalid code session", goerror.CodeUnauthorized)
	}

	factor := entity.MFAFactor{
		ID:           s.uid.Generate(),
		UserID:       cu.UserID,
		Type:         entity.MFATypeTOTP,
		FriendlyName: enr.friendlyName,
		Secret:       enr.ciphertext,
		KeyVersion:   enr.keyVersion,
		IsVerified:   true,
	}

	// Inserting the factor also consumes the challenge.
	if err := s.repoDB.NewMFAFactorTOTP(ctx, factor, cu.ChallengeID); err != nil {
		slog.ErrorContext(ctx, "failed to repo new mfa factor totp", "user_id", cu.UserID, "challenge_id", cu.ChallengeID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

// parseEnrollment pulls the pending factor out of the challenge metadata.
// The stored ciphertext moves into the factor row as is, it is never
// re-encrypted here.
func (s *Usecase) parseEnrollment(ctx context.Context, cu *entity.ChallengeUser) (*totpEnrollment, error) {
	reject := func(reason string) (*totpEnrollment, error) {
		slog.WarnContext(ctx, reason, "user_id", cu.UserID, "challenge_id", cu.ChallengeID)
		return nil, goerror.NewBusiness("invalid challenge session", goerror.CodeUnauthorized)
	}

	encoded := cu.ChallengeMetadata.GetString("secret")
	if encoded == "" {
		return reject("challenge missing totp secret")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return reject("challenge totp secret decode failed")
	}

	name := strings.TrimSpace(cu.ChallengeMetadata.GetString("friendly_name"))
	if name == "" {
		return reject("challenge missing totp friendly name")
	}

	version := cu.ChallengeMetadata.GetInt("key_version")
	if version == 0 {
		version = 1 // challenges parked before key versioning
	}

	return &totpEnrollment{
		ciphertext:   ciphertext,
		friendlyName: name,
		keyVersion:   int16(version),
	}, nil
}

func (s *Usecase) ensureNoTOTPFactor(ctx context.Context, userID int64) error {
	factors, err := s.repoDB.GetMFAFactorByUserID(ctx, userID, true)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get verified mfa factor", "user_id", userID, "error", err)
		return goerror.NewServer(err)
	}

	if findFactor(factors, entity.MFATypeTOTP) != nil {
		return goerror.NewBusiness("A verified TOTP factor already exists", goerror.CodeConflict)
	}

	return nil
}
