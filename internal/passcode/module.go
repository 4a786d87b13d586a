package passcode

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tenangapp/tenang/internal/passcode/outbound/db"
	"github.com/tenangapp/tenang/internal/passcode/usecase"
	"github.com/tenangapp/tenang/internal/pkg/clock"
	"github.com/tenangapp/tenang/internal/pkg/config"
	"github.com/tenangapp/tenang/internal/pkg/goroutine"
	"github.com/tenangapp/tenang/internal/pkg/instrument"
	"github.com/tenangapp/tenang/internal/pkg/uid"
	"github.com/tenangapp/tenang/internal/pkg/validator"
)

type Dependency struct {
	// Ctx, when set, bounds the background reaper.
	Ctx        context.Context
	DBConn     *pgxpool.Pool              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

// New wires the lifecycle engine. Unlike the HTTP-facing modules it hands the
// engine back: identity drives it for verification, login and reset flows.
func New(dep Dependency) (*usecase.Engine, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	engine := usecase.New(usecase.Dependency{
		RepoDB:     db.NewDB(dep.DBConn, dep.Instrument),
		Validator:  dep.Validator,
		Config:     dep.Config,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	if dep.Ctx != nil {
		dep.Goroutine.Go(dep.Ctx, engine.RunReaper)
	}

	return engine, nil
}
