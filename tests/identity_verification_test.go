package tests

import (
	"net/http"
	"testing"
)

func TestVerificationSend(t *testing.T) {

	t.Run("KnownAddress", func(t *testing.T) {

		// Arrange: a fresh registration holds an unverified email.
		user := registerUser(t)
		payload := map[string]string{
			"channel": "email",
			"address": user.Email,
		}

		// Act
		status, body := doJSON(t, http.MethodPost, "/api/v1/identity/verification/send", payload, "")

		// Assert
		if status != http.StatusOK {
			errEnv := decodeError(t, body)
			t.Fatalf("verification send failed: status=%d message=%q", status, errEnv.Message)
		}
	})

	t.Run("UnknownAddressLooksTheSame", func(t *testing.T) {

		// Arrange
		knownPayload := map[string]string{
			"channel": "email",
			"address": registerUser(t).Email,
		}
		unknownPayload := map[string]string{
			"channel": "email",
			"address": uniqueEmail("real-ghost"),
		}

		// Act
		knownStatus, knownBody := doJSON(t, http.MethodPost, "/api/v1/identity/verification/send", knownPayload, "")
		unknownStatus, unknownBody := doJSON(t, http.MethodPost, "/api/v1/identity/verification/send", unknownPayload, "")

		// Assert: the answer must not reveal whether the address exists.
		if knownStatus != http.StatusOK || unknownStatus != http.StatusOK {
			t.Fatalf("expected status 200 for both, got %d and %d", knownStatus, unknownStatus)
		}

		knownEnv := decodeSuccess(t, knownBody, nil)
		unknownEnv := decodeSuccess(t, unknownBody, nil)
		if knownEnv.Message != unknownEnv.Message {
			t.Fatalf("messages differ: %q vs %q", knownEnv.Message, unknownEnv.Message)
		}
	})

	t.Run("InvalidChannel", func(t *testing.T) {

		// Arrange
		payload := map[string]string{
			"channel": "carrier-pigeon",
			"address": uniqueEmail("real-ghost"),
		}

		// Act
		status, _ := doJSON(t, http.MethodPost, "/api/v1/identity/verification/send", payload, "")

		// Assert
		if status != http.StatusUnprocessableEntity {
			t.Fatalf("expected status 422, got %d", status)
		}
	})
}

func TestVerificationConfirm(t *testing.T) {

	t.Run("WrongCode", func(t *testing.T) {

		// Arrange: registration issues a code we cannot read, so a wrong
		// guess must come back coarse.
		user := registerUser(t)
		payload := map[string]string{
			"channel": "email",
			"address": user.Email,
			"code":    "000000",
		}

		// Act
		status, body := doJSON(t, http.MethodPost, "/api/v1/identity/verification/confirm", payload, "")

		// Assert
		if status != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", status)
		}
		errEnv := decodeError(t, body)
		if errEnv.Message != "Code is invalid or expired" {
			t.Fatalf("unexpected error message %q", errEnv.Message)
		}
	})

	t.Run("UnknownAddress", func(t *testing.T) {

		// Arrange
		payload := map[string]string{
			"channel": "email",
			"address": uniqueEmail("real-ghost"),
			"code":    "000000",
		}

		// Act
		status, body := doJSON(t, http.MethodPost, "/api/v1/identity/verification/confirm", payload, "")

		// Assert: same answer as a wrong code for a real address.
		if status != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", status)
		}
		errEnv := decodeError(t, body)
		if errEnv.Message != "Code is invalid or expired" {
			t.Fatalf("unexpected error message %q", errEnv.Message)
		}
	})

	t.Run("AlreadyVerified", func(t *testing.T) {

		// Arrange: re-confirming a verified address is a no-op success.
		payload := map[string]string{
			"channel": "email",
			"address": adminEmail,
			"code":    "000000",
		}

		// Act
		status, body := doJSON(t, http.MethodPost, "/api/v1/identity/verification/confirm", payload, "")

		// Assert
		if status != http.StatusNoContent {
			errEnv := decodeError(t, body)
			t.Fatalf("expected status 204, got %d message=%q", status, errEnv.Message)
		}
	})
}
