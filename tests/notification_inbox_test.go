package tests

import (
	"net/http"
	"testing"
)

func TestInboxList(t *testing.T) {

	// Arrange
	token := adminToken(t)

	// Act
	status, body := doJSON(t, http.MethodGet, "/api/v1/notification/inbox?status=all&limit=10", nil, token)

	// Assert
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("inbox list failed: status=%d message=%q", status, errEnv.Message)
	}

	var data struct {
		Notifications []struct {
			ID         int64  `json:"id"`
			TriggerKey string `json:"trigger_key"`
		} `json:"notifications"`
	}
	decodeSuccess(t, body, &data)
	if data.Notifications == nil {
		t.Fatal("expected a notifications array")
	}
}

func TestInboxListInvalidStatus(t *testing.T) {

	// Arrange
	token := adminToken(t)

	// Act
	status, _ := doJSON(t, http.MethodGet, "/api/v1/notification/inbox?status=archived", nil, token)

	// Assert
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", status)
	}
}

func TestInboxUnreadCount(t *testing.T) {

	// Arrange
	token := adminToken(t)

	// Act
	status, body := doJSON(t, http.MethodGet, "/api/v1/notification/inbox/unread-count", nil, token)

	// Assert
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("unread count failed: status=%d message=%q", status, errEnv.Message)
	}

	var data struct {
		Count *int64 `json:"count"`
	}
	decodeSuccess(t, body, &data)
	if data.Count == nil || *data.Count < 0 {
		t.Fatalf("expected a non-negative count")
	}
}

func TestInboxMarkAllRead(t *testing.T) {

	// Arrange
	token := adminToken(t)

	// Act
	status, body := doJSON(t, http.MethodPut, "/api/v1/notification/inbox/read-all", nil, token)

	// Assert
	if status != http.StatusNoContent {
		errEnv := decodeError(t, body)
		t.Fatalf("mark all read failed: status=%d message=%q", status, errEnv.Message)
	}

	// Every unread notification is gone after the sweep.
	status, body = doJSON(t, http.MethodGet, "/api/v1/notification/inbox/unread-count", nil, token)
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("unread count failed: status=%d message=%q", status, errEnv.Message)
	}

	var data struct {
		Count int64 `json:"count"`
	}
	decodeSuccess(t, body, &data)
	if data.Count != 0 {
		t.Fatalf("expected zero unread after read-all, got %d", data.Count)
	}
}

func TestInboxMarkReadMissing(t *testing.T) {

	// Arrange
	token := adminToken(t)

	// Act
	status, body := doJSON(t, http.MethodPatch, "/api/v1/notification/inbox/999999999/read", nil, token)

	// Assert
	if status != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", status)
	}
	errEnv := decodeError(t, body)
	if errEnv.Message != "inbox notification not found" {
		t.Fatalf("unexpected error message %q", errEnv.Message)
	}
}

func TestInboxDeleteMissing(t *testing.T) {

	// Arrange
	token := adminToken(t)

	// Act
	status, body := doJSON(t, http.MethodDelete, "/api/v1/notification/inbox/999999999", nil, token)

	// Assert
	if status != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", status)
	}
	errEnv := decodeError(t, body)
	if errEnv.Message != "inbox notification not found" {
		t.Fatalf("unexpected error message %q", errEnv.Message)
	}
}

func TestInboxUnauthenticated(t *testing.T) {

	// Act
	status, _ := doJSON(t, http.MethodGet, "/api/v1/notification/inbox", nil, "")

	// Assert
	if status != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", status)
	}
}
