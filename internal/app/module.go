package app

import (
	"log/slog"
	"os"

	"github.com/tenangapp/tenang/internal/directory"
	"github.com/tenangapp/tenang/internal/identity"
	"github.com/tenangapp/tenang/internal/notification"
	"github.com/tenangapp/tenang/internal/passcode"
)

func (a *App) initModules() {
	// The passcode engine is not a module of its own; identity drives it, so
	// it is wired before everything else.
	pcEngine, err := passcode.New(passcode.Dependency{
		Ctx:        a.ctx,
		DBConn:     a.dbConn,
		Goroutine:  a.goroutine,
		Config:     a.config,
		Instrument: a.ins,
		UID:        a.uid,
		Clock:      a.clock,
		Validator:  a.validator,
	})
	if err != nil {
		slog.Error("failed to init passcode engine", "error", err)
		os.Exit(1)
	}

	if a.config.GetBool("modules.identity.enabled") {
		if err := identity.New(identity.Dependency{
			Config:          a.config,
			Instrument:      a.ins,
			UID:             a.uid,
			UUID:            a.uuid,
			OID:             a.oid,
			Bcrypt:          a.bcrypt,
			HMAC:            a.hmac,
			Argon2ID:        a.argon2id,
			MFAEncryptor:    a.mfaEncryptor,
			MFARecoveryCode: a.mfaRecoveryCode,
			Clock:           a.clock,
			Validator:       a.validator,
			Router:          a.router,
			TOTP:            a.totp,
			DBConn:          a.dbConn,
			Passcode:        pcEngine,
			Messaging:       a.messaging,
			Storage:         a.storage,
			Goroutine:       a.goroutine,
			JWT:             a.jwt,
			Enforcer:        a.casbin,
		}); err != nil {
			slog.Error("failed to init module identity", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.directory.enabled") {
		if err := directory.New(directory.Dependency{
			DBConn:     a.dbConn,
			Enforcer:   a.casbin,
			Router:     a.router,
			Instrument: a.ins,
			UID:        a.uid,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module directory", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:         a.ctx,
			DBConn:      a.dbConn,
			Messaging:   a.messaging,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			UUID:        a.uuid,
			Clock:       a.clock,
			Goroutine:   a.goroutine,
			Validator:   a.validator,
			Router:      a.router,
			Mail:        a.mail,
			SMS:         a.sms,
			Idempotency: a.idemp,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
