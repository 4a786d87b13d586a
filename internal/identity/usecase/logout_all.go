package usecase

import (
	"context"
	"log/slog"

	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/pkg/jwt"
)

type LogoutAllInput struct{}

// LogoutAll revokes every refresh token the caller holds, ending all of
// their sessions at once. Access tokens already issued stay valid until
// they expire on their own.
func (s *Usecase) LogoutAll(ctx context.Context, in LogoutAllInput) error {
	ctx, span := s.startSpan(ctx, "LogoutAll")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	if err := s.repoDB.RevokeAllRefreshToken(ctx, clm.UserID); err != nil {
		slog.ErrorContext(ctx, "failed to revoke refresh tokens", "error", err, "user_id", clm.UserID)
		return goerror.NewServer(err)
	}

	return nil
}
