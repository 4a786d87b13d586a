package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/tenangapp/tenang/internal/identity/entity"
	pcentity "github.com/tenangapp/tenang/internal/passcode/entity"
	pcusecase "github.com/tenangapp/tenang/internal/passcode/usecase"
	"github.com/tenangapp/tenang/internal/pkg/clock"
	"github.com/tenangapp/tenang/internal/pkg/config"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/pkg/goroutine"
	"github.com/tenangapp/tenang/internal/pkg/hash"
	"github.com/tenangapp/tenang/internal/pkg/instrument"
	"github.com/tenangapp/tenang/internal/pkg/jwt"
	"github.com/tenangapp/tenang/internal/pkg/mfa"
	"github.com/tenangapp/tenang/internal/pkg/otp"
	"github.com/tenangapp/tenang/internal/pkg/storage"
	"github.com/tenangapp/tenang/internal/pkg/uid"
	"github.com/tenangapp/tenang/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// PasscodeIssuedEvent carries a freshly issued code to the notification
// delivery pipeline. The code itself must never be logged on either side.
type PasscodeIssuedEvent struct {
	UserID      int64
	Channel     string
	Address     string
	Purpose     string
	Code        string
	ExpiresAt   time.Time
	RequestedAt time.Time
}

type UserRegisteredEvent struct {
	UserID   int64
	Email    string
	FullName string
}

type PasswordChangedEvent struct {
	UserID    int64
	Email     string
	ChangedAt time.Time
}

type repoMessaging interface {
	PublishPasscodeIssued(ctx context.Context, msg PasscodeIssuedEvent) error
	PublishUserRegistered(ctx context.Context, msg UserRegisteredEvent) error
	PublishPasswordChanged(ctx context.Context, msg PasswordChangedEvent) error
}

type passcodeEngine interface {
	Issue(ctx context.Context, in pcusecase.IssueInput) (*pcusecase.IssueOutput, error)
	Verify(ctx context.Context, in pcusecase.VerifyInput) error
}

type repoDB interface {
	// reads
	GetUserLoginInfo(ctx context.Context, identifier string) (*entity.UserLoginInfo, error)
	GetUserCredentialInfo(ctx context.Context, id int64) (*entity.UserCredentialInfo, error)
	GetChallengeUserByTokenPurpose(ctx context.Context, token string, p entity.ChallengePurpose) (*entity.ChallengeUser, error)
	GetUserRefreshToken(ctx context.Context, token string) (*entity.UserRefreshToken, error)
	GetUserByEmail(ctx context.Context, email string, includeDeleted bool) (*entity.User, error)
	GetUserByPhone(ctx context.Context, phone string, includeDeleted bool) (*entity.User, error)
	GetMFAFactorByUserID(ctx context.Context, userID int64, isVerified bool) ([]entity.MFAFactor, error)
	GetMFABackupCodeByUserID(ctx context.Context, userID int64) ([]entity.MFABackupCode, error)

	// single row writes
	CreateRefreshToken(ctx context.Context, in entity.RefreshToken) error
	CreateChallenge(ctx context.Context, in entity.Challenge) error
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllRefreshToken(ctx context.Context, userID int64) error
	MarkMFABackupCodeUsed(ctx context.Context, bcID, userID int64) (bool, error)
	UpdateMFALastUsedAt(ctx context.Context, factorID, userID int64) error
	UpdateUserProfile(ctx context.Context, id int64, fullName string) error
	UpdateUserAvatar(ctx context.Context, id int64, avatarURL string) error
	UpdateUserCredential(ctx context.Context, userID int64, hash string) error
	VerifyUserEmail(ctx context.Context, userID int64) error
	VerifyUserPhone(ctx context.Context, userID int64) error

	// multi statement writes that commit as one transaction
	NewMFAFactorTOTP(ctx context.Context, fTOTP entity.MFAFactor, challengeID int64) error
	NewRefreshToken(ctx context.Context, ref entity.RefreshToken, challengeID int64) error
	NewRegistration(ctx context.Context, user entity.NewUser, hash string) error
	NewBackupCodes(ctx context.Context, userID int64, codes []entity.MFABackupCode, factor *entity.MFAFactor) error
	ResetUserPassword(ctx context.Context, userID int64, newHash string) error
	RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) error
}

// Usecase carries every identity operation. State lives behind the
// injected ports, the struct itself is safe for concurrent use.
type Usecase struct {
	repoDB          repoDB
	repoMessaging   repoMessaging
	passcode        passcodeEngine
	validator       validator.Validator
	cfg             config.Config
	storage         storage.Storage
	hmac            hash.Hash
	bcrypt          hash.Hash
	argon2id        hash.Hash
	mfaEncryptor    mfa.Encryptor
	mfaRecoveryCode mfa.RecoveryCodeGenerator
	uid             uid.NumberID
	uuid            uid.StringID
	oid             uid.StringID
	totp            otp.OTP
	clock           clock.Clocker
	jwt             jwt.JWT
	ins             instrument.Instrumentation
	enforcer        *casbin.Enforcer
	goroutine       *goroutine.Manager
}

type Dependency struct {
	RepoDB          repoDB
	RepoMessaging   repoMessaging
	Passcode        passcodeEngine
	Validator       validator.Validator
	Config          config.Config
	Storage         storage.Storage
	HMAC            hash.Hash
	Bcrypt          hash.Hash
	Argon2ID        hash.Hash
	MFAEncryptor    mfa.Encryptor
	MFARecoveryCode mfa.RecoveryCodeGenerator
	UID             uid.NumberID
	UUID            uid.StringID
	OID             uid.StringID
	TOTP            otp.OTP
	Clock           clock.Clocker
	JWT             jwt.JWT
	Instrument      instrument.Instrumentation
	Enforcer        *casbin.Enforcer
	Goroutine       *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:          dep.RepoDB,
		repoMessaging:   dep.RepoMessaging,
		passcode:        dep.Passcode,
		validator:       dep.Validator,
		bcrypt:          dep.Bcrypt,
		hmac:            dep.HMAC,
		argon2id:        dep.Argon2ID,
		mfaEncryptor:    dep.MFAEncryptor,
		mfaRecoveryCode: dep.MFARecoveryCode,
		cfg:             dep.Config,
		storage:         dep.Storage,
		uid:             dep.UID,
		uuid:            dep.UUID,
		oid:             dep.OID,
		totp:            dep.TOTP,
		clock:           dep.Clock,
		jwt:             dep.JWT,
		ins:             dep.Instrument,
		enforcer:        dep.Enforcer,
		goroutine:       dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

// ensureUserStatusAllowed gates every authenticated flow on account state.
// Only active accounts pass.
func (s *Usecase) ensureUserStatusAllowed(ctx context.Context, userID int64, status entity.UserStatus) error {
	switch status.Ensure() {
	case entity.UserStatusUnknown:
		slog.WarnContext(ctx, "user account status is unrecognized", "user_id", userID)
		return goerror.NewBusiness("account status is unrecognized", goerror.CodeForbidden)

	case entity.UserStatusUnverified:
		slog.WarnContext(ctx, "user account is unverified", "user_id", userID)
		return goerror.NewBusiness("account not verified", goerror.CodeForbidden)

	case entity.UserStatusBanned:
		slog.WarnContext(ctx, "user account is banned", "user_id", userID)
		return goerror.NewBusiness("account is banned", goerror.CodeForbidden)

	case entity.UserStatusInactive:
		slog.WarnContext(ctx, "user account is deleted", "user_id", userID)
		return goerror.NewBusiness("account is deleted", goerror.CodeForbidden)

	default:
		return nil
	}
}

// currentUser resolves the authenticated caller to a live account row and
// gates it on account status. A claim whose account vanished reads the same
// as no claim at all.
func (s *Usecase) currentUser(ctx context.Context) (*entity.User, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, clm.UserEmail, false)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "email", clm.UserEmail)
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", clm.UserEmail, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return nil, err
	}

	return user, nil
}

// authenticatedAndAuthorized resolves the caller from the request context
// and asks casbin whether the subject may perform act on obj.
func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	ok, err := s.enforcer.Enforce(clm.Subject, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "user_id", clm.Subject, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ok {
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}

// mapPasscodeError translates code lifecycle outcomes into the messages a
// client is allowed to see. Absence, expiry and a wrong guess collapse into
// one answer so callers cannot probe which codes exist.
func (s *Usecase) mapPasscodeError(err error) error {
	switch {
	case err == nil:
		return nil

	case errors.Is(err, pcentity.ErrNotFound),
		errors.Is(err, pcentity.ErrExpired),
		errors.Is(err, pcentity.ErrCodeMismatch):
		return goerror.NewBusiness("Code is invalid or expired", goerror.CodeUnauthorized)

	case errors.Is(err, pcentity.ErrAlreadyUsed):
		return goerror.NewBusiness("Code already used, request a new one", goerror.CodeUnauthorized)

	case errors.Is(err, pcentity.ErrAttemptsExceeded):
		return goerror.NewBusiness("Too many attempts, request a new code", goerror.CodeTooManyRequest)

	default:
		return err
	}
}

// issueAndPublish creates a fresh code for the contact and hands it to the
// notification pipeline. Publish failures are logged only, the code stays
// valid and the user can request a resend.
func (s *Usecase) issueAndPublish(ctx context.Context, userID int64, ch pcentity.Channel, address string, purpose pcentity.Purpose) error {
	out, err := s.passcode.Issue(ctx, pcusecase.IssueInput{
		UserID:  userID,
		Channel: ch,
		Address: address,
		Purpose: purpose,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue passcode",
			"user_id", userID, "channel", ch.String(), "purpose", purpose.String(), "error", err)
		return err
	}

	if err := s.repoMessaging.PublishPasscodeIssued(ctx, PasscodeIssuedEvent{
		UserID:      userID,
		Channel:     ch.String(),
		Address:     address,
		Purpose:     purpose.String(),
		Code:        out.Code,
		ExpiresAt:   out.ExpiresAt,
		RequestedAt: s.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish passcode issued",
			"user_id", userID, "channel", ch.String(), "purpose", purpose.String(), "error", err)
	}

	return nil
}

// identifierChannel decides which contact channel an identifier addresses.
// Anything containing "@" is treated as an email, the rest as a phone number.
func identifierChannel(identifier string) pcentity.Channel {
	if strings.Contains(identifier, "@") {
		return pcentity.ChannelEmail
	}
	return pcentity.ChannelPhone
}

func (s *Usecase) findUserByContact(ctx context.Context, ch pcentity.Channel, address string) (*entity.User, error) {
	if ch == pcentity.ChannelEmail {
		return s.repoDB.GetUserByEmail(ctx, address, false)
	}
	return s.repoDB.GetUserByPhone(ctx, address, false)
}

func (s *Usecase) findUserByIdentifier(ctx context.Context, identifier string) (*entity.User, pcentity.Channel, error) {
	ch := identifierChannel(identifier)
	user, err := s.findUserByContact(ctx, ch, identifier)
	return user, ch, err
}
