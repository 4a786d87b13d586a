package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tenangapp/tenang/internal/identity/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

type RefreshTokenInput struct {
	RefreshToken string `validate:"required"`
}

type RefreshTokenOutput struct {
	AccessToken  string
	RefreshToken string
}

func errStaleRefreshToken() error {
	return goerror.NewBusiness("invalid or expired refresh token", goerror.CodeUnauthorized)
}

// RefreshToken exchanges a live refresh token for a fresh session pair.
// Each token rotates on use, presenting an already rotated one reads as
// theft and burns every session the user has.
func (s *Usecase) RefreshToken(ctx context.Context, in RefreshTokenInput) (*RefreshTokenOutput, error) {
	ctx, span := s.startSpan(ctx, "RefreshToken")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	oldHash, err := s.hmac.Hash(in.RefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash old refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	rt, err := s.repoDB.GetUserRefreshToken(ctx, string(oldHash))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user refresh token not found")
		return nil, errStaleRefreshToken()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	if rt.RefreshRevoked {
		return nil, s.rejectRevokedToken(ctx, rt)
	}
	if s.clock.Now().After(rt.RefreshExpiresAt) {
		slog.WarnContext(ctx, "user refresh token is expired")
		return nil, errStaleRefreshToken()
	}
	if err := s.ensureUserStatusAllowed(ctx, rt.UserID, rt.UserStatus); err != nil {
		return nil, err
	}

	refreshToken := s.oid.Generate()
	newHash, err := s.hmac.Hash(refreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	accessToken, err := s.jwt.Generate(rt.UserID, rt.UserEmail)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", rt.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	err = s.repoDB.RotateRefreshToken(ctx, entity.RotateRefreshToken{
		NewID:        s.uid.Generate(),
		OldID:        rt.RefreshID,
		UserID:       rt.UserID,
		NewToken:     string(newHash),
		NewExpiresAt: s.clock.Now().Add(s.cfg.GetDay("modules.identity.refresh_token_ttl_days")),
	})
	if errors.Is(err, goerror.ErrNotFound) {
		// Lost a concurrent rotation race, treat it like a stale token.
		slog.WarnContext(ctx, "refresh token already rotated or revoked", "refresh_token_id", rt.RefreshID)
		return nil, errStaleRefreshToken()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo rotate refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RefreshTokenOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// rejectRevokedToken decides how hard to fail a revoked token. A token
// revoked by rotation was already spent once, seeing it again means it
// leaked somewhere, so all of the user's sessions go down with it.
func (s *Usecase) rejectRevokedToken(ctx context.Context, rt *entity.UserRefreshToken) error {
	if rt.RefreshReplacedByTokenID == nil {
		slog.WarnContext(ctx, "refresh token is revoked", "refresh_token_id", rt.RefreshID)
		return errStaleRefreshToken()
	}

	if err := s.repoDB.RevokeAllRefreshToken(ctx, rt.UserID); err != nil {
		slog.ErrorContext(ctx, "failed to repo revoke all refresh token", "user_id", rt.UserID, "error", err)
	}

	slog.WarnContext(ctx, "refresh token reuse detected, revoked all sessions", "user_id", rt.UserID)
	return goerror.NewBusiness("token reuse detected, please log in again", goerror.CodeForbidden)
}
