package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tenangapp/tenang/internal/identity/entity"
	pcentity "github.com/tenangapp/tenang/internal/passcode/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

type LoginInput struct {
	Identifier string `validate:"required,min=3,max=255"`
	Password   string `validate:"required"`
}

type LoginOutput struct {
	MFARequired      bool
	ChallengeToken   string
	AvailableMethods []string
	//
	AccessToken  string
	RefreshToken string
}

// Login authenticates with an email or phone number plus password.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	identifier := strings.TrimSpace(in.Identifier)
	if identifierChannel(identifier) == pcentity.ChannelEmail {
		identifier = strings.ToLower(identifier)
	}

	user, err := s.repoDB.GetUserLoginInfo(ctx, identifier)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "identifier", identifier)
		return nil, goerror.NewBusiness("invalid identifier or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user login info", "identifier", identifier, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return nil, err
	}

	if !s.bcrypt.Verify(user.Password, in.Password) {
		slog.WarnContext(ctx, "password mismatch", "user_id", user.ID)
		return nil, goerror.NewBusiness("invalid identifier or password", goerror.CodeUnauthorized)
	}

	if user.HasMFA {
		cToken := s.oid.Generate()

		cTokenHash, err := s.hmac.Hash(cToken)
		if err != nil {
			slog.ErrorContext(ctx, "failed to hash challenge token", "error", err)
			return nil, goerror.NewServer(err)
		}

		if err := s.repoDB.CreateChallenge(ctx, entity.Challenge{
			ID:        s.uid.Generate(),
			UserID:    user.ID,
			Token:     string(cTokenHash),
			Purpose:   entity.ChallengePurposeMFALogin,
			ExpiresAt: s.clock.Now().Add(s.cfg.GetMinute("modules.identity.mfa_login_ttl_minutes")),
		}); err != nil {
			slog.ErrorContext(ctx, "failed to repo create challenge", "user_id", user.ID, "error", err)
			return nil, goerror.NewServer(err)
		}

		return &LoginOutput{
			MFARequired:      true,
			ChallengeToken:   cToken,
			AvailableMethods: []string{entity.MFATypeTOTP.String(), entity.MFATypeBackupCode.String()},
		}, nil
	}

	acToken, refToken, err := s.issueSessionTokens(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		AccessToken:  acToken,
		RefreshToken: refToken,
	}, nil
}

func (s *Usecase) issueSessionTokens(ctx context.Context, userID int64, email string) (string, string, error) {
	acToken, err := s.jwt.Generate(userID, email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", userID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	refToken := s.oid.Generate()
	refTokenHash, err := s.hmac.Hash(refToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "user_id", userID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	if err := s.repoDB.CreateRefreshToken(ctx, entity.RefreshToken{
		ID:        s.uid.Generate(),
		UserID:    userID,
		Token:     string(refTokenHash),
		ExpiresAt: s.clock.Now().Add(s.cfg.GetDay("modules.identity.refresh_token_ttl_days")),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create refresh token user", "user_id", userID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	return acToken, refToken, nil
}
