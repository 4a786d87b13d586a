package tests

import (
	"net/http"
	"testing"
)

// Rotating for real would invalidate the seeded recovery codes, so the
// suite only exercises the guarded paths.
func TestBackupCodeRotateWrongPassword(t *testing.T) {

	// Arrange
	adminAccessToken := adminToken(t)
	payload := map[string]string{
		"current_password": "Wrong123!",
	}

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/identity/mfa/backup-code", payload, adminAccessToken)

	// Assert
	if status != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", status)
	}
	errEnv := decodeError(t, body)
	if errEnv.Message != "invalid password" {
		t.Fatalf("unexpected error message %q", errEnv.Message)
	}
}

func TestBackupCodeRotateUnauthenticated(t *testing.T) {

	// Arrange
	payload := map[string]string{
		"current_password": adminPassword,
	}

	// Act
	status, _ := doJSON(t, http.MethodPost, "/api/v1/identity/mfa/backup-code", payload, "")

	// Assert
	if status != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", status)
	}
}
