package notification

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tenangapp/tenang/internal/notification/inbound"
	"github.com/tenangapp/tenang/internal/notification/outbound/db"
	"github.com/tenangapp/tenang/internal/notification/outbound/email"
	outsms "github.com/tenangapp/tenang/internal/notification/outbound/sms"
	"github.com/tenangapp/tenang/internal/notification/usecase"
	"github.com/tenangapp/tenang/internal/pkg/clock"
	"github.com/tenangapp/tenang/internal/pkg/config"
	"github.com/tenangapp/tenang/internal/pkg/goroutine"
	"github.com/tenangapp/tenang/internal/pkg/idempotency"
	"github.com/tenangapp/tenang/internal/pkg/instrument"
	"github.com/tenangapp/tenang/internal/pkg/mail"
	"github.com/tenangapp/tenang/internal/pkg/messaging"
	"github.com/tenangapp/tenang/internal/pkg/router"
	"github.com/tenangapp/tenang/internal/pkg/sms"
	"github.com/tenangapp/tenang/internal/pkg/uid"
	"github.com/tenangapp/tenang/internal/pkg/validator"
)

type Dependency struct {
	// Ctx bounds the MQ consumers; leave nil to serve HTTP only.
	Ctx context.Context

	DBConn      *pgxpool.Pool              `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Mail        mail.Mail                  `validate:"required"`
	SMS         sms.SMS                    `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbNotif := db.NewDB(dep.DBConn, dep.Instrument)
	repoMail := email.New(dep.Mail, dep.Instrument)
	repoSMS := outsms.New(dep.SMS, dep.Instrument)

	uc := usecase.NewNotification(usecase.Dependency{
		RepoDB:     dbNotif,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		RepoMail:   repoMail,
		RepoSMS:    repoSMS,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, dep.Idempotency, uc, dep.Instrument)
	}

	return nil
}
