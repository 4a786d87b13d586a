package usecase

import (
	"context"
	"log/slog"

	"github.com/tenangapp/tenang/internal/identity/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/pkg/jwt"
)

type ProfileSettingMFAOutput struct {
	TOTPEnabled       bool
	BackupCodeEnabled bool
	SMSEnabled        bool
}

// ProfileSettingMFA reports which second factors the caller has enrolled and
// confirmed. SMS factors are never reported enabled: the product does not
// offer SMS as a second factor, only as a passwordless login channel.
func (s *Usecase) ProfileSettingMFA(ctx context.Context) (*ProfileSettingMFAOutput, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	factors, err := s.repoDB.GetMFAFactorByUserID(ctx, clm.UserID, true)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get mfa factor by user_id", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	var out ProfileSettingMFAOutput
	for _, f := range factors {
		switch f.Type {
		case entity.MFATypeTOTP:
			out.TOTPEnabled = true
		case entity.MFATypeBackupCode:
			out.BackupCodeEnabled = true
		case entity.MFATypeSMS:
			// rows may exist from an abandoned enrollment; not a factor
		}
	}

	return &out, nil
}
