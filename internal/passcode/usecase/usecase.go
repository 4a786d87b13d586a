package usecase

import (
	"context"
	"time"

	"github.com/tenangapp/tenang/internal/passcode/entity"
	"github.com/tenangapp/tenang/internal/pkg/clock"
	"github.com/tenangapp/tenang/internal/pkg/config"
	"github.com/tenangapp/tenang/internal/pkg/instrument"
	"github.com/tenangapp/tenang/internal/pkg/uid"
	"github.com/tenangapp/tenang/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// defaultTTL applies when neither the caller nor the configuration says
// how long a code lives.
const defaultTTL = 5 * time.Minute

type repoDB interface {
	DeleteUnused(ctx context.Context, userID int64, channel entity.Channel, purpose entity.Purpose) (int64, error)
	Create(ctx context.Context, pc entity.Passcode) error
	FindActive(ctx context.Context, userID int64, channel entity.Channel, purpose entity.Purpose) (*entity.Passcode, error)
	IncrementAttempts(ctx context.Context, id int64, expected int16) (bool, error)
	MarkUsed(ctx context.Context, id int64) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// Engine owns the code lifecycle: Issued, then exactly one of Consumed,
// Expired or Exhausted. It never delivers codes; callers hand the issued
// code to the notification pipeline.
type Engine struct {
	repoDB    repoDB
	validator validator.Validator
	cfg       config.Config
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Validator  validator.Validator
	Config     config.Config
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Engine {
	return &Engine{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		cfg:       dep.Config,
		uid:       dep.UID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (e *Engine) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return e.ins.Tracer("passcode.usecase").Start(ctx, name)
}

func (e *Engine) ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl > 0 {
		return ttl
	}
	if v := e.cfg.GetSecond("modules.passcode.ttl_seconds"); v > 0 {
		return v
	}
	return defaultTTL
}
