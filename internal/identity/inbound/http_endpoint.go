package inbound

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/tenangapp/tenang/internal/identity/entity"
	"github.com/tenangapp/tenang/internal/identity/usecase"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/pkg/router"
)

// HTTPEndpoint adapts identity usecases to the router's handler shape.
// Each method decodes one request model and maps the result back.
type HTTPEndpoint struct {
	uc uc
}

// Login checks a password against an email or phone identifier. Accounts
// with active MFA factors get a challenge instead of tokens.
// @Summary Authenticate user
// @Description Validates an email or phone number plus password and returns access/refresh tokens. If MFA is required, a challenge is returned.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} router.successResponse{data=LoginResponse} "Authentication result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error" example:{"message":"Login failed due to server error","error":{"detail":"Please try again later"}}
// @Router /api/v1/identity/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		AccessToken:      resp.AccessToken,
		RefreshToken:     resp.RefreshToken,
		MFARequired:      resp.MFARequired,
		ChallengeToken:   resp.ChallengeToken,
		AvailableMethods: resp.AvailableMethods,
	}, nil
}

// Login2FA redeems a login challenge with a TOTP or backup code.
// @Summary Complete 2FA login
// @Description Verifies the second factor for a pending login challenge and returns access/refresh tokens.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body Login2FARequest true "2FA login payload"
// @Success 200 {object} router.successResponse{data=Login2FAResponse} "Authentication result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid MFA code"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/login/2fa [post]
func (h *HTTPEndpoint) Login2FA(r *router.Request) (any, error) {
	var req Login2FARequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login2FA(r.Context(), usecase.Login2FAInput{
		ChallengeToken: req.ChallengeToken,
		Method:         entity.MFATypeFromString(req.Method),
		Code:           req.Code,
	})
	if err != nil {
		return nil, err
	}

	return Login2FAResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// LoginOTPSend sends a one time login code to a verified phone number.
// @Summary Request login code
// @Description Sends a one time login code via SMS when the phone number belongs to an eligible account.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body LoginOTPSendRequest true "Login code payload"
// @Success 200 {object} router.successResponse{data=LoginOTPSendResponse} "Send result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/login/otp/send [post]
func (h *HTTPEndpoint) LoginOTPSend(r *router.Request) (any, error) {
	var req LoginOTPSendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.LoginOTPSend(r.Context(), usecase.LoginOTPSendInput{Phone: req.Phone}); err != nil {
		return nil, err
	}

	return &LoginOTPSendResponse{}, nil
}

// LoginOTPConfirm completes a passwordless login with a one time code.
// @Summary Confirm login code
// @Description Verifies the one time login code and returns access/refresh tokens.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body LoginOTPConfirmRequest true "Login code confirmation payload"
// @Success 200 {object} router.successResponse{data=LoginOTPConfirmResponse} "Authentication result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid or expired code"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Too many attempts"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/login/otp/confirm [post]
func (h *HTTPEndpoint) LoginOTPConfirm(r *router.Request) (any, error) {
	var req LoginOTPConfirmRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.LoginOTPConfirm(r.Context(), usecase.LoginOTPConfirmInput{
		Phone: req.Phone,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	return LoginOTPConfirmResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// RefreshToken rotates a refresh token into a fresh token pair.
// @Summary Refresh access token
// @Description Trades a live refresh token for a new access/refresh pair. The old refresh token stops working.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh token payload"
// @Success 200 {object} router.successResponse{data=RefreshTokenResponse} "Token refresh result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid refresh token"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/refresh [post]
func (h *HTTPEndpoint) RefreshToken(r *router.Request) (any, error) {
	var req RefreshTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RefreshToken(r.Context(), usecase.RefreshTokenInput{RefreshToken: req.RefreshToken})
	if err != nil {
		return nil, err
	}

	return RefreshTokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// Register opens a new account in pending state until one contact
// address is verified.
// @Summary Register user
// @Description Creates a new account and sends a verification code to the email address.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 200 {object} router.successResponse{data=RegisterResponse} "Registration result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Email or phone already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		FullName: req.FullName,
	}); err != nil {
		return nil, err
	}

	return &RegisterResponse{}, nil
}

// VerificationSend sends a verification code to a contact address.
// @Summary Send verification code
// @Description Sends a verification code when an account exists for the provided address.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body VerificationSendRequest true "Verification send payload"
// @Success 200 {object} router.successResponse{data=VerificationSendResponse} "Send result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/verification/send [post]
func (h *HTTPEndpoint) VerificationSend(r *router.Request) (any, error) {
	var req VerificationSendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.VerificationSend(r.Context(), usecase.VerificationSendInput{
		Channel: req.Channel,
		Address: req.Address,
	}); err != nil {
		return nil, err
	}

	return &VerificationSendResponse{}, nil
}

// VerificationConfirm verifies a contact address using a one time code.
// @Summary Confirm verification code
// @Description Marks the contact address verified when the code matches. The first verified channel activates the account.
// @Tags Identity, Authentication
// @Accept json
// @Param request body VerificationConfirmRequest true "Verification confirm payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid or expired code"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Too many attempts"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/verification/confirm [post]
func (h *HTTPEndpoint) VerificationConfirm(r *router.Request) (any, error) {
	var req VerificationConfirmRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.VerificationConfirm(r.Context(), usecase.VerificationConfirmInput{
		Channel: req.Channel,
		Address: req.Address,
		Code:    req.Code,
	})
}

// PasswordForgot kicks off a password reset by sending a one time code.
// @Summary Request password reset
// @Description Sends a password reset code to the email address or phone number.
// @Tags Identity, Authentication
// @Accept json
// @Param request body PasswordForgotRequest true "Forgot password payload"
// @Success 200 {object} router.successResponse{data=PasswordForgotResponse} "Send result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/password/forgot [post]
func (h *HTTPEndpoint) PasswordForgot(r *router.Request) (any, error) {
	var req PasswordForgotRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordForgot(r.Context(), usecase.PasswordForgotInput{Identifier: req.Identifier}); err != nil {
		return nil, err
	}

	return &PasswordForgotResponse{}, nil
}

// PasswordReset completes a password reset using a one time code.
// @Summary Reset password
// @Description Sets a new password using the reset code and revokes every active session.
// @Tags Identity, Authentication
// @Accept json
// @Param request body PasswordResetRequest true "Reset password payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid or expired code"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Too many attempts"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/password/reset [post]
func (h *HTTPEndpoint) PasswordReset(r *router.Request) (any, error) {
	var req PasswordResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.PasswordReset(r.Context(), usecase.PasswordResetInput{
		Identifier:  req.Identifier,
		Code:        req.Code,
		NewPassword: req.NewPassword,
	})
}

// PasswordChange replaces the password of the authenticated user.
// @Summary Change password
// @Description Sets a new password once the current one checks out, then revokes every active session.
// @Tags Identity, Profile Security
// @Security BearerAuth
// @Accept json
// @Param request body PasswordChangeRequest true "Change password payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/password/change [post]
func (h *HTTPEndpoint) PasswordChange(r *router.Request) (any, error) {
	var req PasswordChangeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.PasswordChange(r.Context(), usecase.PasswordChangeInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
}

// Logout ends the session that owns the given refresh token.
// @Summary Logout
// @Description Revokes the provided refresh token. Succeeds even when the token is already gone.
// @Tags Identity, Authentication
// @Accept json
// @Param request body LogoutRequest true "Logout payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/logout [post]
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	var req LogoutRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.Logout(r.Context(), usecase.LogoutInput{RefreshToken: req.RefreshToken})
}

// LogoutAll drops every active session of the authenticated user.
// @Summary Logout all sessions
// @Description Revokes all refresh tokens issued to the authenticated user, on every device.
// @Tags Identity, Profile Security
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/logout-all [post]
func (h *HTTPEndpoint) LogoutAll(r *router.Request) (any, error) {
	return nil, h.uc.LogoutAll(r.Context(), usecase.LogoutAllInput{})
}

// TOTPSetup starts enrolling an authenticator app as a second factor.
// @Summary Setup TOTP
// @Description Provisions a pending TOTP factor and returns the shared secret plus the otpauth URI for QR rendering.
// @Tags Identity, Profile Security
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body TOTPSetupRequest true "TOTP setup payload"
// @Success 200 {object} router.successResponse{data=TOTPSetupResponse} "TOTP setup result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/mfa/totp/setup [post]
func (h *HTTPEndpoint) TOTPSetup(r *router.Request) (any, error) {
	var req TOTPSetupRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.TOTPSetup(r.Context(), usecase.TOTPSetupInput{
		FriendlyName:    req.FriendlyName,
		CurrentPassword: req.CurrentPassword,
	})
	if err != nil {
		return nil, err
	}

	return TOTPSetupResponse{
		ChallengeToken: resp.ChallengeToken,
		Key:            resp.Key,
		URI:            resp.URI,
	}, nil
}

// TOTPConfirm proves possession of the enrolled authenticator and
// activates the factor.
// @Summary Confirm TOTP
// @Description Checks a code from the authenticator app against the pending factor and turns it on.
// @Tags Identity, Profile Security
// @Security BearerAuth
// @Accept json
// @Param request body TOTPConfirmRequest true "TOTP confirmation payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "MFA factor not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/mfa/totp/confirm [post]
func (h *HTTPEndpoint) TOTPConfirm(r *router.Request) (any, error) {
	var req TOTPConfirmRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.TOTPConfirm(r.Context(), usecase.TOTPConfirmInput{
		ChallengeToken: req.ChallengeToken,
		Code:           req.Code,
	})
}

// BackupCode issues a fresh set of recovery codes, replacing any
// unused ones.
// @Summary Rotate backup codes
// @Description Generates ten new recovery codes. Codes from earlier batches stop working immediately.
// @Tags Identity, Profile Security
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body BackupCodeRequest true "Backup code rotation payload"
// @Success 200 {object} router.successResponse{data=BackupCodeResponse} "Backup codes rotated"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/mfa/backup-code [post]
func (h *HTTPEndpoint) BackupCode(r *router.Request) (any, error) {
	var req BackupCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.BackupCode(r.Context(), usecase.BackupCodeInput{CurrentPassword: req.CurrentPassword})
	if err != nil {
		return nil, err
	}

	return &BackupCodeResponse{RecoveryCodes: resp.RecoveryCodes}, nil
}

// ProfileUpdate edits the display details of the authenticated user.
// @Summary Update profile
// @Description Changes the profile name of the authenticated user.
// @Tags Identity, Profile
// @Security BearerAuth
// @Accept json
// @Param request body ProfileUpdateRequest true "Profile update payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/profile [put]
func (h *HTTPEndpoint) ProfileUpdate(r *router.Request) (any, error) {
	var req ProfileUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.ProfileUpdate(r.Context(), usecase.ProfileUpdateInput{FullName: req.FullName})
}

// ProfileUpdateAvatar stores a new avatar image for the authenticated
// user. The content type comes from sniffing the upload, not the form.
// @Summary Update profile avatar
// @Description Uploads a new avatar image and replaces the current one.
// @Tags Identity, Profile
// @Security BearerAuth
// @Accept multipart/form-data
// @Param avatar formData file true "Avatar image"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/profile/avatar [put]
func (h *HTTPEndpoint) ProfileUpdateAvatar(r *router.Request) (any, error) {
	ctx := r.Context()

	file, err := r.StreamSingleFile("avatar")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close file", "error", err)
		}
	}()

	body, contentType, err := sniffUpload(file)
	if err != nil {
		return nil, err
	}

	return nil, h.uc.ProfileUpdateAvatar(ctx, usecase.ProfileUpdateAvatarInput{
		File:        body,
		ContentType: contentType,
	})
}

// sniffUpload detects the media type from the first 512 bytes and returns
// a reader that replays them ahead of the remaining stream.
func sniffUpload(file io.Reader) (io.Reader, string, error) {
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, "", goerror.NewInvalidFormat()
	}

	return io.MultiReader(bytes.NewReader(head[:n]), file), http.DetectContentType(head[:n]), nil
}

// Profile returns the account details of the authenticated user.
// @Summary Get profile
// @Description Returns account, contact and verification details for the authenticated user.
// @Tags Identity, Profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Profile result"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/profile [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context(), usecase.ProfileInput{})
	if err != nil {
		return nil, err
	}

	return ProfileResponse{
		ID:            resp.ID,
		Email:         resp.Email,
		Phone:         resp.Phone,
		FullName:      resp.FullName,
		AvatarURL:     resp.AvatarURL,
		Status:        resp.Status,
		EmailVerified: resp.EmailVerified,
		PhoneVerified: resp.PhoneVerified,
	}, nil
}

// ProfilePermissions lists the RBAC grants of the authenticated user.
// @Summary Get profile permissions
// @Tags Identity, Profile Security
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=ProfilePermissionsResponse} "Permissions list"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/profile/permissions [get]
func (h *HTTPEndpoint) ProfilePermissions(r *router.Request) (any, error) {
	resp, err := h.uc.ProfilePermissions(r.Context())
	if err != nil {
		return nil, err
	}

	if resp == nil {
		resp = map[string][]string{}
	}

	return ProfilePermissionsResponse{Permissions: resp}, nil
}

// ProfileSettingMFA reports which second factors the user has active.
// @Summary Get profile MFA settings
// @Description Returns which MFA methods are currently active on the account.
// @Tags Identity, Profile Security
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=ProfileSettingMFAResponse} "MFA settings"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/profile/settings/mfa [get]
func (h *HTTPEndpoint) ProfileSettingMFA(r *router.Request) (any, error) {
	resp, err := h.uc.ProfileSettingMFA(r.Context())
	if err != nil {
		return nil, err
	}

	return ProfileSettingMFAResponse{
		TOTPEnabled:       resp.TOTPEnabled,
		BackupCodeEnabled: resp.BackupCodeEnabled,
		SMSEnabled:        resp.SMSEnabled,
	}, nil
}
