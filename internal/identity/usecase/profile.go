package usecase

import (
	"context"
)

type ProfileInput struct{}

type ProfileOutput struct {
	ID            int64
	Email         string
	Phone         string
	FullName      string
	AvatarURL     string
	Status        string
	EmailVerified bool
	PhoneVerified bool
}

// Profile returns the caller's own account. Verification flags derive from
// the per-channel timestamps; the timestamps themselves stay internal.
func (s *Usecase) Profile(ctx context.Context, in ProfileInput) (*ProfileOutput, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{
		ID:            user.ID,
		Email:         user.Email,
		Phone:         user.Phone,
		FullName:      user.FullName,
		AvatarURL:     user.AvatarURL,
		Status:        user.Status.String(),
		EmailVerified: user.EmailVerifiedAt != nil,
		PhoneVerified: user.PhoneVerifiedAt != nil,
	}, nil
}
