package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/tenangapp/tenang/internal/identity/entity"
	pcentity "github.com/tenangapp/tenang/internal/passcode/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

type RegisterInput struct {
	Email    string `validate:"required,email"`
	Phone    string `validate:"required,e164"`
	Password string `validate:"required,password"`
	FullName string `validate:"required,min=5,max=100,alphaspace"`
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) error {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.FullName = strings.TrimSpace(in.FullName)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email, true)
	if err == nil {
		switch user.Status {
		case entity.UserStatusActive:
			return goerror.NewBusiness("Email already registered", goerror.CodeConflict)
		case entity.UserStatusUnverified:
			return goerror.NewBusiness("Account not verified", goerror.CodeConflict)
		case entity.UserStatusInactive:
			return goerror.NewBusiness("Account deactivated", goerror.CodeConflict)
		default:
			return goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
		}
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if _, err = s.repoDB.GetUserByPhone(ctx, in.Phone, true); err == nil {
		return goerror.NewBusiness("Phone already registered", goerror.CodeConflict)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by phone", "error", err)
		return goerror.NewServer(err)
	}

	hashedPassword, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	newUserID := s.uid.Generate()
	newUser := entity.NewUser{
		ID:        newUserID,
		CreatedBy: newUserID,
		UpdatedBy: newUserID,
		Email:     in.Email,
		Phone:     in.Phone,
		FullName:  in.FullName,
		AvatarURL: "https://ui-avatars.com/api/?name=" + url.QueryEscape(in.FullName),
		Status:    entity.UserStatusUnverified,
	}

	if err := s.repoDB.NewRegistration(ctx, newUser, string(hashedPassword)); err != nil {
		slog.ErrorContext(ctx, "failed to repo user registration", "email", newUser.Email, "error", err)
		return goerror.NewServer(err)
	}

	// Delivery is best effort here, the user can ask for a resend.
	_ = s.issueAndPublish(ctx, newUser.ID, pcentity.ChannelEmail, newUser.Email, pcentity.PurposeVerification)

	if err := s.repoMessaging.PublishUserRegistered(ctx, UserRegisteredEvent{
		UserID:   newUser.ID,
		Email:    newUser.Email,
		FullName: newUser.FullName,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish user registered", "user_id", newUser.ID, "error", err)
	}

	return nil
}
