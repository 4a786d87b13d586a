package tests

import (
	"net/http"
	"testing"
)

func TestTOTPSetup(t *testing.T) {

	// Arrange: the admin fixture has no TOTP factor, so setup only parks
	// a pending challenge that expires on its own.
	adminAccessToken := adminToken(t)

	// Act
	challengeToken, key := setupTOTP(t, adminAccessToken, adminPassword)

	// Assert
	if challengeToken == "" || key == "" {
		t.Fatalf("expected challenge token and key")
	}
}

func TestTOTPSetupWrongPassword(t *testing.T) {

	// Arrange
	adminAccessToken := adminToken(t)
	payload := map[string]string{
		"friendly_name":    "Test MFA",
		"current_password": "Wrong123!",
	}

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/identity/mfa/totp/setup", payload, adminAccessToken)

	// Assert
	if status != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", status)
	}
	errEnv := decodeError(t, body)
	if errEnv.Message != "invalid password" {
		t.Fatalf("unexpected error message %q", errEnv.Message)
	}
}

func TestTOTPSetupAlreadyVerified(t *testing.T) {

	// Arrange: the MFA fixture already holds a verified TOTP factor.
	loginResp := login(t, userEmail, userPassword)

	payload := map[string]string{
		"challenge_token": loginResp.ChallengeToken,
		"method":          "TOTP",
		"code":            totpCode(t, userTOTPSecret),
	}

	status, body := doJSON(t, http.MethodPost, "/api/v1/identity/login/2fa", payload, "")
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("login 2fa failed: status=%d message=%q", status, errEnv.Message)
	}

	var tokens loginData
	decodeSuccess(t, body, &tokens)

	setupPayload := map[string]string{
		"friendly_name":    "Second Device",
		"current_password": userPassword,
	}

	// Act
	status, body = doJSON(t, http.MethodPost, "/api/v1/identity/mfa/totp/setup", setupPayload, tokens.AccessToken)

	// Assert
	if status != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", status)
	}
	errEnv := decodeError(t, body)
	if errEnv.Message != "A verified TOTP factor already exists" {
		t.Fatalf("unexpected error message %q", errEnv.Message)
	}
}
