package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tenangapp/tenang/internal/identity/entity"
	pcentity "github.com/tenangapp/tenang/internal/passcode/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

func TestVerificationConfirmEmail(t *testing.T) {
	env := newTestUsecase(t)
	env.repo.seedUser(entity.User{ID: 9, Email: "jane@example.com", Status: entity.UserStatusUnverified}, hashOf("x"), false)

	err := env.uc.VerificationConfirm(context.Background(), VerificationConfirmInput{
		Channel: "email",
		Address: "Jane@Example.com",
		Code:    "123456",
	})
	if err != nil {
		t.Fatalf("verification confirm: %v", err)
	}

	attempt := env.codes.onlyVerified(t)
	if attempt.UserID != 9 || attempt.Channel != pcentity.ChannelEmail || attempt.Purpose != pcentity.PurposeVerification {
		t.Fatalf("verify attempt %+v", attempt)
	}
	if attempt.Code != "123456" {
		t.Fatalf("verify attempt carried %q", attempt.Code)
	}

	if len(env.repo.emailVerified) != 1 || env.repo.emailVerified[0] != 9 {
		t.Fatalf("email not marked verified: %v", env.repo.emailVerified)
	}
	if len(env.repo.phoneVerified) != 0 {
		t.Fatal("phone must stay untouched")
	}
}

func TestVerificationConfirmPhone(t *testing.T) {
	env := newTestUsecase(t)
	env.repo.seedUser(entity.User{ID: 9, Email: "jane@example.com", Phone: "+628120000001", Status: entity.UserStatusUnverified}, hashOf("x"), false)

	err := env.uc.VerificationConfirm(context.Background(), VerificationConfirmInput{
		Channel: "phone",
		Address: "+628120000001",
		Code:    "123456",
	})
	if err != nil {
		t.Fatalf("verification confirm: %v", err)
	}

	if len(env.repo.phoneVerified) != 1 || env.repo.phoneVerified[0] != 9 {
		t.Fatalf("phone not marked verified: %v", env.repo.phoneVerified)
	}
}

// Confirming an already verified channel is a no-op success; no attempt may
// be burned on it.
func TestVerificationConfirmAlreadyVerified(t *testing.T) {
	env := newTestUsecase(t)
	verifiedAt := env.clock.Now()
	env.repo.seedUser(entity.User{
		ID: 9, Email: "jane@example.com", Status: entity.UserStatusActive, EmailVerifiedAt: &verifiedAt,
	}, hashOf("x"), false)

	err := env.uc.VerificationConfirm(context.Background(), VerificationConfirmInput{
		Channel: "email",
		Address: "jane@example.com",
		Code:    "000000",
	})
	if err != nil {
		t.Fatalf("verification confirm: %v", err)
	}

	if len(env.codes.verified) != 0 {
		t.Fatal("no verify attempt may be spent on a verified channel")
	}
	if len(env.repo.emailVerified) != 0 {
		t.Fatal("no write expected for a verified channel")
	}
}

// An unknown address answers exactly like a wrong code.
func TestVerificationConfirmUnknownAddress(t *testing.T) {
	env := newTestUsecase(t)

	err := env.uc.VerificationConfirm(context.Background(), VerificationConfirmInput{
		Channel: "email",
		Address: "nobody@example.com",
		Code:    "123456",
	})
	assertBusinessMsg(t, err, goerror.CodeUnauthorized, "Code is invalid or expired")

	if len(env.codes.verified) != 0 {
		t.Fatal("no verify attempt may reach the engine")
	}
}

func TestVerificationConfirmBannedAccount(t *testing.T) {
	env := newTestUsecase(t)
	env.repo.seedUser(entity.User{ID: 9, Email: "jane@example.com", Status: entity.UserStatusBanned}, hashOf("x"), false)

	err := env.uc.VerificationConfirm(context.Background(), VerificationConfirmInput{
		Channel: "email",
		Address: "jane@example.com",
		Code:    "123456",
	})
	assertBusinessMsg(t, err, goerror.CodeForbidden, "Account is banned")
}

func TestVerificationConfirmCodeLifecycle(t *testing.T) {
	cases := []struct {
		name      string
		verifyErr error
		code      goerror.Code
		msg       string
	}{
		{"mismatch", pcentity.ErrCodeMismatch, goerror.CodeUnauthorized, "Code is invalid or expired"},
		{"no active code", pcentity.ErrNotFound, goerror.CodeUnauthorized, "Code is invalid or expired"},
		{"expired", pcentity.ErrExpired, goerror.CodeUnauthorized, "Code is invalid or expired"},
		{"already used", pcentity.ErrAlreadyUsed, goerror.CodeUnauthorized, "Code already used, request a new one"},
		{"attempts exceeded", pcentity.ErrAttemptsExceeded, goerror.CodeTooManyRequest, "Too many attempts, request a new code"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestUsecase(t)
			env.repo.seedUser(entity.User{ID: 9, Email: "jane@example.com", Status: entity.UserStatusUnverified}, hashOf("x"), false)
			env.codes.verifyErr = tc.verifyErr

			err := env.uc.VerificationConfirm(context.Background(), VerificationConfirmInput{
				Channel: "email",
				Address: "jane@example.com",
				Code:    "123456",
			})

			assertBusinessMsg(t, err, tc.code, tc.msg)
			if len(env.repo.emailVerified) != 0 {
				t.Fatal("a rejected code must not verify the channel")
			}
		})
	}
}

func TestVerificationConfirmRejectsBadInput(t *testing.T) {
	env := newTestUsecase(t)

	cases := []VerificationConfirmInput{
		{Channel: "email", Address: "jane@example.com", Code: "12345"},
		{Channel: "email", Address: "jane@example.com", Code: "abcdef"},
		{Channel: "carrier-pigeon", Address: "jane@example.com", Code: "123456"},
	}

	for i, in := range cases {
		assertValidationError(t, env.uc.VerificationConfirm(context.Background(), in))
		if len(env.codes.verified) != 0 {
			t.Fatalf("case %d: rejected input must not reach the engine", i)
		}
	}
}

func TestVerificationConfirmStoreFailure(t *testing.T) {
	env := newTestUsecase(t)
	env.repo.seedUser(entity.User{ID: 9, Email: "jane@example.com", Status: entity.UserStatusUnverified}, hashOf("x"), false)
	env.repo.failOn["VerifyUserEmail"] = errors.New("connection reset")

	err := env.uc.VerificationConfirm(context.Background(), VerificationConfirmInput{
		Channel: "email",
		Address: "jane@example.com",
		Code:    "123456",
	})
	assertServerError(t, err)
}
