package tests

import (
	"net/http"
	"testing"
)

func TestTOTPConfirmWrongCode(t *testing.T) {

	// Arrange: a wrong code leaves the admin challenge pending and never
	// activates a factor.
	adminAccessToken := adminToken(t)
	challengeToken, _ := setupTOTP(t, adminAccessToken, adminPassword)

	payload := map[string]string{
		"challenge_token": challengeToken,
		"code":            "000000",
	}

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/identity/mfa/totp/confirm", payload, adminAccessToken)

	// Assert
	if status != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", status)
	}
	errEnv := decodeError(t, body)
	if errEnv.Message != "invalid code session" {
		t.Fatalf("unexpected error message %q", errEnv.Message)
	}
}

func TestTOTPConfirmUnknownChallenge(t *testing.T) {

	// Arrange
	adminAccessToken := adminToken(t)
	payload := map[string]string{
		"challenge_token": "not-a-real-challenge-token",
		"code":            "123456",
	}

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/identity/mfa/totp/confirm", payload, adminAccessToken)

	// Assert
	if status != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", status)
	}
	errEnv := decodeError(t, body)
	if errEnv.Message != "invalid challenge session" {
		t.Fatalf("unexpected error message %q", errEnv.Message)
	}
}
