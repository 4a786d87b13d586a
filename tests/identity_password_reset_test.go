package tests

import (
	"net/http"
	"testing"
)

func TestPasswordReset(t *testing.T) {

	t.Run("WrongCode", func(t *testing.T) {

		// Arrange: request a reset code, then guess wrong.
		forgotPayload := map[string]string{"identifier": adminEmail}
		status, body := doJSON(t, http.MethodPost, "/api/v1/identity/password/forgot", forgotPayload, "")
		if status != http.StatusOK {
			errEnv := decodeError(t, body)
			t.Fatalf("password forgot failed: status=%d message=%q", status, errEnv.Message)
		}

		payload := map[string]string{
			"identifier":   adminEmail,
			"code":         "000000",
			"new_password": "Another123!",
		}

		// Act
		status, body = doJSON(t, http.MethodPost, "/api/v1/identity/password/reset", payload, "")

		// Assert
		if status != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", status)
		}
		errEnv := decodeError(t, body)
		if errEnv.Message != "Code is invalid or expired" {
			t.Fatalf("unexpected error message %q", errEnv.Message)
		}

		// The password must be untouched after a failed reset.
		if resp := login(t, adminEmail, adminPassword); resp.AccessToken == "" {
			t.Fatalf("expected original password to keep working")
		}
	})

	t.Run("UnknownIdentifier", func(t *testing.T) {

		// Arrange
		payload := map[string]string{
			"identifier":   uniqueEmail("real-ghost"),
			"code":         "000000",
			"new_password": "Another123!",
		}

		// Act
		status, body := doJSON(t, http.MethodPost, "/api/v1/identity/password/reset", payload, "")

		// Assert: same answer as a wrong code for a real account.
		if status != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", status)
		}
		errEnv := decodeError(t, body)
		if errEnv.Message != "Code is invalid or expired" {
			t.Fatalf("unexpected error message %q", errEnv.Message)
		}
	})

	t.Run("WeakPassword", func(t *testing.T) {

		// Arrange
		payload := map[string]string{
			"identifier":   adminEmail,
			"code":         "000000",
			"new_password": "weak",
		}

		// Act
		status, _ := doJSON(t, http.MethodPost, "/api/v1/identity/password/reset", payload, "")

		// Assert
		if status != http.StatusUnprocessableEntity {
			t.Fatalf("expected status 422, got %d", status)
		}
	})
}
