package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/tenangapp/tenang/internal/identity/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

// seedRefreshRow parks a live refresh token for user 7. The client-side
// token is "old-tok".
func seedRefreshRow(env *testEnv, mutate func(*entity.UserRefreshToken)) {
	rt := entity.UserRefreshToken{
		UserID:           7,
		UserEmail:        "user@tenang.app",
		UserStatus:       entity.UserStatusActive,
		RefreshID:        61,
		RefreshToken:     hashOf("old-tok"),
		RefreshExpiresAt: env.clock.Now().Add(24 * time.Hour),
	}
	if mutate != nil {
		mutate(&rt)
	}
	env.repo.seedRefreshToken(rt)
}

func TestRefreshTokenRotates(t *testing.T) {
	env := newTestUsecase(t)
	seedRefreshRow(env, nil)

	out, err := env.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "old-tok"})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if out.AccessToken != "jwt-7-user@tenang.app" {
		t.Fatalf("access token %q", out.AccessToken)
	}
	if out.RefreshToken != "tok-1" || out.RefreshToken == "old-tok" {
		t.Fatalf("refresh token %q, want a fresh one", out.RefreshToken)
	}

	ro := env.repo.onlyRotation(t)
	if ro.OldID != 61 || ro.UserID != 7 {
		t.Fatalf("rotation %+v", ro)
	}
	if ro.NewToken != hashOf("tok-1") {
		t.Fatalf("rotation stored %q; only the hash may be persisted", ro.NewToken)
	}
	if want := env.clock.Now().Add(30 * 24 * time.Hour); !ro.NewExpiresAt.Equal(want) {
		t.Fatalf("new expiry %v, want %v", ro.NewExpiresAt, want)
	}
}

// Replaying a rotated token means the token leaked. Every session of the
// account gets cut, not just the replayed one.
func TestRefreshTokenReuseRevokesEverything(t *testing.T) {
	env := newTestUsecase(t)
	replacedBy := int64(62)
	seedRefreshRow(env, func(rt *entity.UserRefreshToken) {
		rt.RefreshRevoked = true
		rt.RefreshReplacedByTokenID = &replacedBy
	})

	_, err := env.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "old-tok"})
	assertBusinessMsg(t, err, goerror.CodeForbidden, "token reuse detected, please log in again")

	if len(env.repo.revokedAllFor) != 1 || env.repo.revokedAllFor[0] != 7 {
		t.Fatalf("expected a full revocation for user 7, got %v", env.repo.revokedAllFor)
	}
	if len(env.repo.rotations) != 0 {
		t.Fatal("a replayed token must not rotate")
	}
}

// A token revoked by logout was surrendered, not stolen; no mass revocation.
func TestRefreshTokenRevoked(t *testing.T) {
	env := newTestUsecase(t)
	seedRefreshRow(env, func(rt *entity.UserRefreshToken) {
		rt.RefreshRevoked = true
	})

	_, err := env.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "old-tok"})
	assertBusinessMsg(t, err, goerror.CodeUnauthorized, "invalid or expired refresh token")

	if len(env.repo.revokedAllFor) != 0 {
		t.Fatal("a surrendered token must not trigger a full revocation")
	}
}

func TestRefreshTokenExpired(t *testing.T) {
	env := newTestUsecase(t)
	seedRefreshRow(env, nil)
	env.clock.Advance(25 * time.Hour)

	_, err := env.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "old-tok"})
	assertBusinessMsg(t, err, goerror.CodeUnauthorized, "invalid or expired refresh token")
}

func TestRefreshTokenUnknown(t *testing.T) {
	env := newTestUsecase(t)

	_, err := env.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "never-issued"})
	assertBusinessMsg(t, err, goerror.CodeUnauthorized, "invalid or expired refresh token")
}

// Two racing refreshes of the same token: the loser finds the row already
// rotated and is turned away without a second rotation.
func TestRefreshTokenRotationRace(t *testing.T) {
	env := newTestUsecase(t)
	seedRefreshRow(env, nil)
	env.repo.rotateMiss = true

	_, err := env.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "old-tok"})
	assertBusinessMsg(t, err, goerror.CodeUnauthorized, "invalid or expired refresh token")
}

func TestRefreshTokenBlockedAccount(t *testing.T) {
	env := newTestUsecase(t)
	seedRefreshRow(env, func(rt *entity.UserRefreshToken) {
		rt.UserStatus = entity.UserStatusBanned
	})

	_, err := env.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "old-tok"})
	assertBusinessMsg(t, err, goerror.CodeForbidden, "account is banned")
}

func TestRefreshTokenRejectsBadInput(t *testing.T) {
	env := newTestUsecase(t)

	_, err := env.uc.RefreshToken(context.Background(), RefreshTokenInput{})
	assertValidationError(t, err)
}
