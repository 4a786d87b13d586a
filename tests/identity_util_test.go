package tests

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	libotp "github.com/pquerna/otp"
	"github.com/tenangapp/tenang/internal/pkg/otp"
)

// Seeded fixtures the suite expects in the target database:
// an active admin holding directory management permissions, and an
// active user with a confirmed TOTP factor, backup codes, and a
// verified phone number.
const (
	adminEmail    = "admin@tenang.app"
	adminPassword = "Secret123!"

	userEmail      = "user@tenang.app"
	userPassword   = "Secret123!"
	userPhone      = "+628110000002"
	userTOTPSecret = "KFP6EBHKHTWE2PHK5GOK7K2ARBZWQDBV"
	userBackupCode = "odwh-23IX-j5Pl" // or "LZEG-lnN4-w8hQ"
)

type loginData struct {
	AccessToken      string   `json:"access_token"`
	RefreshToken     string   `json:"refresh_token"`
	MFARequired      bool     `json:"mfa_required"`
	ChallengeToken   string   `json:"challenge_token"`
	AvailableMethods []string `json:"available_methods"`
}

func login(t *testing.T, identifier, password string) loginData {
	t.Helper()

	payload := map[string]string{
		"identifier": identifier,
		"password":   password,
	}

	status, body := doJSON(t, http.MethodPost, "/api/v1/identity/login", payload, "")
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("login failed: status=%d message=%q", status, errEnv.Message)
	}

	var data loginData
	decodeSuccess(t, body, &data)

	return data
}

func adminToken(t *testing.T) string {
	t.Helper()

	resp := login(t, adminEmail, adminPassword)
	if resp.AccessToken == "" {
		t.Fatal("missing admin access token")
	}

	return resp.AccessToken
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

func uniquePhone() string {
	return fmt.Sprintf("+6281%010d", time.Now().UnixNano()%10000000000)
}

type testUser struct {
	Email    string
	Phone    string
	Password string
	FullName string
}

// registerUser creates a fresh account through the public endpoint. The
// account stays unverified because the verification code only goes out
// through email or SMS.
func registerUser(t *testing.T) testUser {
	t.Helper()

	user := testUser{
		Email:    uniqueEmail("real-user"),
		Phone:    uniquePhone(),
		Password: "Secret123!",
		FullName: "Test User",
	}

	payload := map[string]string{
		"email":     user.Email,
		"phone":     user.Phone,
		"password":  user.Password,
		"full_name": user.FullName,
	}

	status, body := doJSON(t, http.MethodPost, "/api/v1/identity/register", payload, "")
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("register user failed: status=%d message=%q", status, errEnv.Message)
	}

	return user
}

func totpCode(t *testing.T, key string) string {
	t.Helper()

	issuer := "TENANG"
	period := uint(30)
	skew := uint(1)

	generator := otp.NewTOTP(issuer, period, skew, libotp.DigitsSix)
	code, err := generator.GenerateCode(key, time.Now())
	if err != nil {
		t.Fatalf("generate totp code: %v", err)
	}

	return code
}

func setupTOTP(t *testing.T, token, password string) (string, string) {
	t.Helper()

	payload := map[string]string{
		"friendly_name":    "Test MFA",
		"current_password": password,
	}

	status, body := doJSON(t, http.MethodPost, "/api/v1/identity/mfa/totp/setup", payload, token)
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("totp setup failed: status=%d message=%q", status, errEnv.Message)
	}

	var data struct {
		ChallengeToken string `json:"challenge_token"`
		Key            string `json:"key"`
	}
	decodeSuccess(t, body, &data)
	if data.ChallengeToken == "" || data.Key == "" {
		t.Fatal("totp setup response missing fields")
	}

	return data.ChallengeToken, data.Key
}
