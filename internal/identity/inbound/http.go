package inbound

import (
	"context"

	"github.com/tenangapp/tenang/internal/identity/usecase"
	"github.com/tenangapp/tenang/internal/pkg/router"
)

type uc interface {
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	Login2FA(ctx context.Context, in usecase.Login2FAInput) (*usecase.Login2FAOutput, error)
	LoginOTPSend(ctx context.Context, in usecase.LoginOTPSendInput) error
	LoginOTPConfirm(ctx context.Context, in usecase.LoginOTPConfirmInput) (*usecase.LoginOTPConfirmOutput, error)
	RefreshToken(ctx context.Context, in usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error)

	Register(ctx context.Context, in usecase.RegisterInput) error
	VerificationSend(ctx context.Context, in usecase.VerificationSendInput) error
	VerificationConfirm(ctx context.Context, in usecase.VerificationConfirmInput) error

	PasswordForgot(ctx context.Context, in usecase.PasswordForgotInput) error
	PasswordReset(ctx context.Context, in usecase.PasswordResetInput) error
	PasswordChange(ctx context.Context, in usecase.PasswordChangeInput) error

	Logout(ctx context.Context, in usecase.LogoutInput) error
	LogoutAll(ctx context.Context, in usecase.LogoutAllInput) error

	Profile(ctx context.Context, in usecase.ProfileInput) (*usecase.ProfileOutput, error)
	ProfileUpdate(ctx context.Context, in usecase.ProfileUpdateInput) error
	ProfileUpdateAvatar(ctx context.Context, in usecase.ProfileUpdateAvatarInput) error
	ProfilePermissions(ctx context.Context) (map[string][]string, error)
	ProfileSettingMFA(ctx context.Context) (*usecase.ProfileSettingMFAOutput, error)

	TOTPSetup(ctx context.Context, in usecase.TOTPSetupInput) (*usecase.TOTPSetupOutput, error)
	TOTPConfirm(ctx context.Context, in usecase.TOTPConfirmInput) error
	BackupCode(ctx context.Context, in usecase.BackupCodeInput) (*usecase.BackupCodeOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Auth
	r.POST("/api/v1/identity/login", end.Login)
	r.POST("/api/v1/identity/login/2fa", end.Login2FA)
	r.POST("/api/v1/identity/login/otp/send", end.LoginOTPSend)
	r.POST("/api/v1/identity/login/otp/confirm", end.LoginOTPConfirm)
	r.POST("/api/v1/identity/refresh", end.RefreshToken)
	//
	r.POST("/api/v1/identity/register", end.Register)
	r.POST("/api/v1/identity/verification/send", end.VerificationSend)
	r.POST("/api/v1/identity/verification/confirm", end.VerificationConfirm)
	//
	r.POST("/api/v1/identity/logout", end.Logout)
	r.POST("/api/v1/identity/logout-all", end.LogoutAll) // need authenticated

	// Password Management
	r.POST("/api/v1/identity/password/forgot", end.PasswordForgot)
	r.POST("/api/v1/identity/password/reset", end.PasswordReset)
	r.POST("/api/v1/identity/password/change", end.PasswordChange) // need authenticated

	// MFA (TOTP)
	r.POST("/api/v1/identity/mfa/totp/setup", end.TOTPSetup)     // need authenticated
	r.POST("/api/v1/identity/mfa/totp/confirm", end.TOTPConfirm) // need authenticated
	r.POST("/api/v1/identity/mfa/backup-code", end.BackupCode)   // need authenticated

	// User Profile (need authenticated)
	r.GET("/api/v1/identity/profile", end.Profile)
	r.PUT("/api/v1/identity/profile", end.ProfileUpdate)
	r.PUT("/api/v1/identity/profile/avatar", end.ProfileUpdateAvatar)
	r.GET("/api/v1/identity/profile/permissions", end.ProfilePermissions)
	r.GET("/api/v1/identity/profile/settings/mfa", end.ProfileSettingMFA)
}
