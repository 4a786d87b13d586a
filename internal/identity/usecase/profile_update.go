package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

type ProfileUpdateInput struct {
	FullName string `validate:"required,min=5,max=100,alphaspace"`
}

// ProfileUpdate changes the display name. Email and phone are identity
// anchors and follow the verification flows instead.
func (s *Usecase) ProfileUpdate(ctx context.Context, in ProfileUpdateInput) error {
	ctx, span := s.startSpan(ctx, "ProfileUpdate")
	defer span.End()

	in.FullName = strings.TrimSpace(in.FullName)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.currentUser(ctx)
	if err != nil {
		return err
	}

	if err := s.repoDB.UpdateUserProfile(ctx, user.ID, in.FullName); err != nil {
		slog.ErrorContext(ctx, "failed to update user profile", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
