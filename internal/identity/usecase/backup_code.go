package usecase

import (
	"context"
	"log/slog"

	"github.com/tenangapp/tenang/internal/identity/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/pkg/jwt"
)

type BackupCodeInput struct {
	CurrentPassword string `validate:"required"`
}

type BackupCodeOutput struct {
	RecoveryCodes []string
}

// BackupCode rotates the caller's recovery codes. Previous codes die
// with the rotation, the plaintext batch is returned exactly once.
func (s *Usecase) BackupCode(ctx context.Context, in BackupCodeInput) (*BackupCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "BackupCode")
	defer span.End()

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

	// First rotation also creates the carrier factor, afterwards the
	// existing one is reused and factor stays nil.
	factor, err := s.backupCodeFactorIfMissing(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	recoveryCodes, err := s.mfaRecoveryCode.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate backup codes", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	rows, err := s.hashBackupCodes(ctx, user.ID, recoveryCodes)
	if err != nil {
		return nil, err
	}

	if err := s.repoDB.NewBackupCodes(ctx, user.ID, rows, factor); err != nil {
		slog.ErrorContext(ctx, "failed to rotate backup codes", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &BackupCodeOutput{RecoveryCodes: recoveryCodes}, nil
}

func (s *Usecase) backupCodeFactorIfMissing(ctx context.Context, userID int64) (*entity.MFAFactor, error) {
	factors, err := s.repoDB.GetMFAFactorByUserID(ctx, userID, true)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get verified mfa factor", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if findFactor(factors, entity.MFATypeBackupCode) != nil {
		return nil, nil
	}

	return &entity.MFAFactor{
		ID:           s.uid.Generate(),
		UserID:       userID,
		Type:         entity.MFATypeBackupCode,
		FriendlyName: "Backup Codes",
		Secret:       []byte(""),
		KeyVersion:   1,
		IsVerified:   true,
	}, nil
}

func (s *Usecase) hashBackupCodes(ctx context.Context, userID int64, codes []string) ([]entity.MFABackupCode, error) {
	rows := make([]entity.MFABackupCode, 0, len(codes))
	for _, code := range codes {
		hashed, err := s.argon2id.Hash(code)
		if err != nil {
			slog.ErrorContext(ctx, "failed to hash backup code", "user_id", userID, "error", err)
			return nil, goerror.NewServer(err)
		}

		rows = append(rows, entity.MFABackupCode{
			ID:     s.uid.Generate(),
			UserID: userID,
			Code:   string(hashed),
		})
	}

	return rows, nil
}
