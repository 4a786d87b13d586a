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
	"github.com/tenangapp/tenang/internal/pkg/valueobject"
)

type TOTPSetupInput struct {
	FriendlyName    string `validate:"required,min=2,max=100"`
	CurrentPassword string `validate:"required"`
}

type TOTPSetupOutput struct {
	ChallengeToken string
	Key            string
	URI            string
}

// TOTPSetup provisions a new authenticator seed. The encrypted seed is
// parked in a short lived challenge, the factor only becomes real once
// TOTPConfirm sees a matching code. The plaintext seed goes back to the
// caller exactly once, here.
func (s *Usecase) TOTPSetup(ctx context.Context, in TOTPSetupInput) (*TOTPSetupOutput, error) {
	ctx, span := s.startSpan(ctx, "TOTPSetup")
	defer span.End()

	in.FriendlyName = strings.TrimSpace(in.FriendlyName)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	user, err := s.reauthenticate(ctx, clm.UserID, in.CurrentPassword)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return nil, err
	}
	if err := s.ensureNoTOTPFactor(ctx, user.ID); err != nil {
		return nil, err
	}

	seed, uri, err := s.totp.Generate(user.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate totp secret", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	ciphertext, err := s.mfaEncryptor.Encrypt([]byte(seed), mfa.Scope{
		UserID:  user.ID,
		Purpose: mfa.PurposeOTPSeed,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encrypt totp secret", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	token := s.oid.Generate()
	tokenHash, err := s.hmac.Hash(token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash challenge token", "error", err)
		return nil, goerror.NewServer(err)
	}

	challenge := entity.Challenge{
		ID:        s.uid.Generate(),
		UserID:    user.ID,
		Token:     string(tokenHash),
		Purpose:   entity.ChallengePurposeMFASetupConfirm,
		ExpiresAt: s.clock.Now().Add(s.cfg.GetMinute("modules.identity.mfa_setup_confirm_ttl_minutes")),
		Metadata: valueobject.JSONMap{
			"secret":        base64.StdEncoding.EncodeToString(ciphertext),
			"friendly_name": in.FriendlyName,
			"key_version":   1,
		},
	}
	if err := s.repoDB.CreateChallenge(ctx, challenge); err != nil {
		slog.ErrorContext(ctx, "failed to create mfa challenge", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &TOTPSetupOutput{
		ChallengeToken: token,
		Key:            seed,
		URI:            uri,
	}, nil
}

// reauthenticate loads the caller's credential row and checks the
// supplied password. Sensitive self service operations require it even
// on a valid session.
func (s *Usecase) reauthenticate(ctx context.Context, userID int64, password string) (*entity.UserCredentialInfo, error) {
	user, err := s.repoDB.GetUserCredentialInfo(ctx, userID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "user_id", userID)
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.bcrypt.Verify(user.Password, password) {
		slog.WarnContext(ctx, "password mismatch", "user_id", user.ID)
		return nil, goerror.NewBusiness("invalid password", goerror.CodeUnauthorized)
	}

	return user, nil
}
