package identity

import (
	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tenangapp/tenang/internal/identity/inbound"
	"github.com/tenangapp/tenang/internal/identity/outbound/db"
	"github.com/tenangapp/tenang/internal/identity/outbound/mq"
	"github.com/tenangapp/tenang/internal/identity/usecase"
	pcusecase "github.com/tenangapp/tenang/internal/passcode/usecase"
	"github.com/tenangapp/tenang/internal/pkg/clock"
	"github.com/tenangapp/tenang/internal/pkg/config"
	"github.com/tenangapp/tenang/internal/pkg/goroutine"
	"github.com/tenangapp/tenang/internal/pkg/hash"
	"github.com/tenangapp/tenang/internal/pkg/instrument"
	"github.com/tenangapp/tenang/internal/pkg/jwt"
	"github.com/tenangapp/tenang/internal/pkg/messaging"
	"github.com/tenangapp/tenang/internal/pkg/mfa"
	"github.com/tenangapp/tenang/internal/pkg/otp"
	"github.com/tenangapp/tenang/internal/pkg/router"
	"github.com/tenangapp/tenang/internal/pkg/storage"
	"github.com/tenangapp/tenang/internal/pkg/uid"
	"github.com/tenangapp/tenang/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Enforcer   *casbin.Enforcer           `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Passcode   *pcusecase.Engine          `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Storage    storage.Storage            `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`

	UID             uid.NumberID              `validate:"required"`
	UUID            uid.StringID              `validate:"required"`
	OID             uid.StringID              `validate:"required"`
	HMAC            hash.Hash                 `validate:"required"`
	Bcrypt          hash.Hash                 `validate:"required"`
	Argon2ID        hash.Hash                 `validate:"required"`
	MFAEncryptor    mfa.Encryptor             `validate:"required"`
	MFARecoveryCode mfa.RecoveryCodeGenerator `validate:"required"`
	Clock           clock.Clocker             `validate:"required"`
	TOTP            otp.OTP                   `validate:"required"`
	Validator       validator.Validator       `validate:"required"`
	JWT             jwt.JWT                   `validate:"required"`
}

// New assembles the identity module, account lifecycle plus sessions,
// and mounts its routes. The passcode engine arrives prebuilt, its
// lifecycle belongs to the app bootstrap.
func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAuth := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:          dbAuth,
		RepoMessaging:   repoMsg,
		Passcode:        dep.Passcode,
		Validator:       dep.Validator,
		Config:          dep.Config,
		Storage:         dep.Storage,
		HMAC:            dep.HMAC,
		Bcrypt:          dep.Bcrypt,
		Argon2ID:        dep.Argon2ID,
		MFAEncryptor:    dep.MFAEncryptor,
		MFARecoveryCode: dep.MFARecoveryCode,
		UID:             dep.UID,
		UUID:            dep.UUID,
		OID:             dep.OID,
		TOTP:            dep.TOTP,
		Clock:           dep.Clock,
		JWT:             dep.JWT,
		Instrument:      dep.Instrument,
		Enforcer:        dep.Enforcer,
		Goroutine:       dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
