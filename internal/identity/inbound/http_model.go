package inbound

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	MFARequired      bool     `json:"mfa_required,omitempty"`
	ChallengeToken   string   `json:"challenge_token,omitempty"`
	AvailableMethods []string `json:"available_methods,omitempty"`
	AccessToken      string   `json:"access_token,omitempty"`
	RefreshToken     string   `json:"refresh_token,omitempty"`
}

type Login2FARequest struct {
	ChallengeToken string `json:"challenge_token"`
	Method         string `json:"method"`
	Code           string `json:"code"`
}

type Login2FAResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginOTPSendRequest struct {
	Phone string `json:"phone"`
}

type LoginOTPSendResponse struct{}

func (LoginOTPSendResponse) Message() string {
	return "If an account with that phone number exists, we have sent a login code."
}

type LoginOTPConfirmRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type LoginOTPConfirmResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type RegisterResponse struct{}

func (RegisterResponse) Message() string {
	return "Registration successful. We sent a verification code to your email."
}

type VerificationSendRequest struct {
	Channel string `json:"channel"`
	Address string `json:"address"`
}

type VerificationSendResponse struct{}

func (VerificationSendResponse) Message() string {
	return "If an account with that address exists, we have sent a verification code."
}

type VerificationConfirmRequest struct {
	Channel string `json:"channel"`
	Address string `json:"address"`
	Code    string `json:"code"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type PasswordForgotRequest struct {
	Identifier string `json:"identifier"`
}

type PasswordForgotResponse struct{}

func (PasswordForgotResponse) Message() string {
	return "If an account with that identifier exists, we have sent a password reset code."
}

type PasswordResetRequest struct {
	Identifier  string `json:"identifier"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type TOTPSetupRequest struct {
	FriendlyName    string `json:"friendly_name"`
	CurrentPassword string `json:"current_password"`
}

type TOTPSetupResponse struct {
	ChallengeToken string `json:"challenge_token"`
	Key            string `json:"key"`
	URI            string `json:"uri"`
}

type TOTPConfirmRequest struct {
	ChallengeToken string `json:"challenge_token"`
	Code           string `json:"code"`
}

type BackupCodeRequest struct {
	CurrentPassword string `json:"current_password"`
}

type BackupCodeResponse struct {
	RecoveryCodes []string `json:"recovery_codes"`
}

type ProfileResponse struct {
	ID            int64  `json:"id,string"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	FullName      string `json:"full_name"`
	AvatarURL     string `json:"avatar_url"`
	Status        string `json:"status"`
	EmailVerified bool   `json:"email_verified"`
	PhoneVerified bool   `json:"phone_verified"`
}

type ProfileUpdateRequest struct {
	FullName string `json:"full_name"`
}

type ProfilePermissionsResponse struct {
	Permissions map[string][]string `json:"permissions"`
}

type ProfileSettingMFAResponse struct {
	TOTPEnabled       bool `json:"totp_enabled"`
	BackupCodeEnabled bool `json:"backup_code_enabled"`
	SMSEnabled        bool `json:"sms_enabled"`
}
