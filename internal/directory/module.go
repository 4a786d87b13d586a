package directory

import (
	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tenangapp/tenang/internal/directory/inbound"
	"github.com/tenangapp/tenang/internal/directory/outbound/db"
	"github.com/tenangapp/tenang/internal/directory/usecase"
	"github.com/tenangapp/tenang/internal/pkg/instrument"
	"github.com/tenangapp/tenang/internal/pkg/router"
	"github.com/tenangapp/tenang/internal/pkg/uid"
	"github.com/tenangapp/tenang/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Enforcer   *casbin.Enforcer           `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:     db.NewDB(dep.DBConn, dep.Instrument),
		Validator:  dep.Validator,
		UID:        dep.UID,
		Instrument: dep.Instrument,
		Enforcer:   dep.Enforcer,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
