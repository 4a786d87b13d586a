package usecase

import (
	"context"
	"log/slog"

	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/pkg/jwt"
)

// refreshTokenLength is the exact length of an opaque refresh token as
// minted by the login flows.
const refreshTokenLength = 64

type LogoutInput struct {
	RefreshToken string
}

// Logout revokes the presented refresh token. A token of the wrong shape
// cannot be one of ours, so it is dropped without a store round trip; the
// access token expires on its own either way.
func (s *Usecase) Logout(ctx context.Context, in LogoutInput) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	if clm := jwt.GetAuth(ctx); clm == nil {
		return goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	if len(in.RefreshToken) != refreshTokenLength {
		return nil
	}

	tokenHash, err := s.hmac.Hash(in.RefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.RevokeRefreshToken(ctx, string(tokenHash)); err != nil {
		slog.ErrorContext(ctx, "failed to repo revoke refresh token", "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
