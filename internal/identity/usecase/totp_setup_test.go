package usecase

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/tenangapp/tenang/internal/identity/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/pkg/mfa"
)

func TestTOTPSetupParksChallenge(t *testing.T) {
	env := newTestUsecase(t)
	seedActiveUser(env, false)

	out, err := env.uc.TOTPSetup(authCtx(7, "user@tenang.app"), TOTPSetupInput{
		FriendlyName:    " My Phone ",
		CurrentPassword: "Secret123!",
	})
	if err != nil {
		t.Fatalf("totp setup: %v", err)
	}

	if out.ChallengeToken != "tok-1" {
		t.Fatalf("challenge token %q", out.ChallengeToken)
	}
	if out.Key != testTOTPSecret {
		t.Fatalf("key %q, want the plaintext seed for the authenticator app", out.Key)
	}
	if out.URI != "otpauth://totp/Tenang:user@tenang.app?secret="+testTOTPSecret {
		t.Fatalf("uri %q", out.URI)
	}

	ch := env.repo.onlyChallenge(t)
	if ch.UserID != 7 || ch.Purpose != entity.ChallengePurposeMFASetupConfirm {
		t.Fatalf("challenge row %+v", ch)
	}
	if ch.Token != hashOf("tok-1") {
		t.Fatalf("challenge stored as %q; only the hash may be persisted", ch.Token)
	}
	if want := env.clock.Now().Add(5 * time.Minute); !ch.ExpiresAt.Equal(want) {
		t.Fatalf("challenge expiry %v, want %v", ch.ExpiresAt, want)
	}

	wantSecret := base64.StdEncoding.EncodeToString(encrypted(testTOTPSecret))
	if got := ch.Metadata.GetString("secret"); got != wantSecret {
		t.Fatalf("metadata secret %q, want the encrypted seed", got)
	}
	if got := ch.Metadata.GetString("friendly_name"); got != "My Phone" {
		t.Fatalf("metadata friendly name %q", got)
	}
	if got := ch.Metadata.GetInt("key_version"); got != 1 {
		t.Fatalf("metadata key version %d", got)
	}

	if want := (mfa.Scope{UserID: 7, Purpose: mfa.PurposeOTPSeed}); env.enc.lastScope != want {
		t.Fatalf("encrypt scope %+v, want %+v", env.enc.lastScope, want)
	}

	// Enrollment only finishes on confirm.
	if len(env.repo.newFactors) != 0 {
		t.Fatal("no factor may exist before the code is confirmed")
	}
}

func TestTOTPSetupWrongPassword(t *testing.T) {
	env := newTestUsecase(t)
	seedActiveUser(env, false)

	_, err := env.uc.TOTPSetup(authCtx(7, "user@tenang.app"), TOTPSetupInput{
		FriendlyName:    "My Phone",
		CurrentPassword: "WrongSecret1!",
	})
	assertBusinessMsg(t, err, goerror.CodeUnauthorized, "invalid password")

	if len(env.repo.challenges) != 0 {
		t.Fatal("no challenge may be parked without the password")
	}
}

func TestTOTPSetupAlreadyEnrolled(t *testing.T) {
	env := newTestUsecase(t)
	seedActiveUser(env, true)
	env.repo.seedMFAFactor(entity.MFAFactor{
		ID: 31, UserID: 7, Type: entity.MFATypeTOTP, Secret: encrypted(testTOTPSecret), IsVerified: true,
	})

	_, err := env.uc.TOTPSetup(authCtx(7, "user@tenang.app"), TOTPSetupInput{
		FriendlyName:    "My Phone",
		CurrentPassword: "Secret123!",
	})
	assertBusinessMsg(t, err, goerror.CodeConflict, "A verified TOTP factor already exists")
}

func TestTOTPSetupRequiresAuth(t *testing.T) {
	env := newTestUsecase(t)

	_, err := env.uc.TOTPSetup(context.Background(), TOTPSetupInput{
		FriendlyName:    "My Phone",
		CurrentPassword: "Secret123!",
	})
	assertBusinessMsg(t, err, goerror.CodeUnauthorized, "authentication required")
}

func TestTOTPSetupRejectsBadInput(t *testing.T) {
	env := newTestUsecase(t)
	seedActiveUser(env, false)

	cases := []TOTPSetupInput{
		{FriendlyName: "M", CurrentPassword: "Secret123!"},
		{FriendlyName: "My Phone", CurrentPassword: ""},
	}

	for i, in := range cases {
		if _, err := env.uc.TOTPSetup(authCtx(7, "user@tenang.app"), in); err == nil {
			t.Fatalf("case %d: expected rejection for %+v", i, in)
		}
	}
}
