package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tenangapp/tenang/internal/identity/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

func TestPasswordChangeSwapsCredential(t *testing.T) {
	env := newTestUsecase(t)
	seedActiveUser(env, false)

	err := env.uc.PasswordChange(authCtx(7, "user@tenang.app"), PasswordChangeInput{
		CurrentPassword: "Secret123!",
		NewPassword:     "NewSecret456!",
	})
	if err != nil {
		t.Fatalf("password change: %v", err)
	}

	if got := env.repo.credentialHash[7]; got != hashOf("NewSecret456!") {
		t.Fatalf("stored credential %q, want the new hash", got)
	}
	if len(env.repo.revokedAllFor) != 1 || env.repo.revokedAllFor[0] != 7 {
		t.Fatalf("other sessions must be cut after the change: %v", env.repo.revokedAllFor)
	}
	if len(env.msg.passwordChanged) != 1 || env.msg.passwordChanged[0].UserID != 7 {
		t.Fatalf("password changed events %+v", env.msg.passwordChanged)
	}
}

func TestPasswordChangeWrongCurrentPassword(t *testing.T) {
	env := newTestUsecase(t)
	seedActiveUser(env, false)

	err := env.uc.PasswordChange(authCtx(7, "user@tenang.app"), PasswordChangeInput{
		CurrentPassword: "WrongSecret1!",
		NewPassword:     "NewSecret456!",
	})
	assertBusinessMsg(t, err, goerror.CodeUnauthorized, "invalid password")

	if len(env.repo.credentialHash) != 0 {
		t.Fatal("credential must stay untouched")
	}
	if len(env.repo.revokedAllFor) != 0 {
		t.Fatal("sessions must stay untouched")
	}
}

func TestPasswordChangeRequiresAuth(t *testing.T) {
	t.Run("no claims", func(t *testing.T) {
		env := newTestUsecase(t)

		err := env.uc.PasswordChange(context.Background(), PasswordChangeInput{
			CurrentPassword: "Secret123!",
			NewPassword:     "NewSecret456!",
		})
		assertBusinessMsg(t, err, goerror.CodeUnauthorized, "authentication required")
	})

	t.Run("stale claims", func(t *testing.T) {
		env := newTestUsecase(t)

		err := env.uc.PasswordChange(authCtx(99, "gone@tenang.app"), PasswordChangeInput{
			CurrentPassword: "Secret123!",
			NewPassword:     "NewSecret456!",
		})
		assertBusinessMsg(t, err, goerror.CodeUnauthorized, "authentication required")
	})
}

func TestPasswordChangeBlockedAccount(t *testing.T) {
	env := newTestUsecase(t)
	env.repo.seedUser(entity.User{ID: 7, Email: "user@tenang.app", Status: entity.UserStatusBanned}, hashOf("Secret123!"), false)

	err := env.uc.PasswordChange(authCtx(7, "user@tenang.app"), PasswordChangeInput{
		CurrentPassword: "Secret123!",
		NewPassword:     "NewSecret456!",
	})
	assertBusinessMsg(t, err, goerror.CodeForbidden, "account is banned")
}

func TestPasswordChangeRejectsBadInput(t *testing.T) {
	env := newTestUsecase(t)
	seedActiveUser(env, false)

	cases := []PasswordChangeInput{
		{CurrentPassword: "Secret123!", NewPassword: "short"},
		{CurrentPassword: "", NewPassword: "NewSecret456!"},
	}

	for i, in := range cases {
		assertValidationError(t, env.uc.PasswordChange(authCtx(7, "user@tenang.app"), in))
		if len(env.repo.credentialHash) != 0 {
			t.Fatalf("case %d: rejected input must not change the credential", i)
		}
	}
}

// The credential swap holds even when cutting other sessions fails.
func TestPasswordChangeRevocationFailure(t *testing.T) {
	env := newTestUsecase(t)
	seedActiveUser(env, false)
	env.repo.failOn["RevokeAllRefreshToken"] = errors.New("connection reset")

	err := env.uc.PasswordChange(authCtx(7, "user@tenang.app"), PasswordChangeInput{
		CurrentPassword: "Secret123!",
		NewPassword:     "NewSecret456!",
	})
	if err != nil {
		t.Fatalf("password change: %v", err)
	}
	if got := env.repo.credentialHash[7]; got != hashOf("NewSecret456!") {
		t.Fatalf("stored credential %q", got)
	}
}
