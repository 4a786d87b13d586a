package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/tenangapp/tenang/internal/passcode/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

// casRetries bounds the optimistic attempt-increment loop. Losing this race
// more than a couple of times means pathological contention on one code.
const casRetries = 3

var errAttemptContention = errors.New("passcode: attempt accounting did not settle")

type VerifyInput struct {
	UserID  int64          `validate:"required,gt=0"`
	Channel entity.Channel `validate:"required"`
	Purpose entity.Purpose `validate:"required"`
	Code    string         `validate:"required,len=6,numeric"`
}

// Verify consumes one attempt against the active code for (user, channel,
// purpose) and, on a match, flips it to used. Outcomes the caller can branch
// on are the entity sentinels; anything else is a storage failure.
//
// The attempt increment persists whether or not the code matches, and is
// compare-and-set so two racing verifiers cannot both slip past the cap.
func (e *Engine) Verify(ctx context.Context, in VerifyInput) error {
	ctx, span := e.startSpan(ctx, "Verify")
	defer span.End()

	if err := e.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	pc, err := e.findCurrent(ctx, in)
	if err != nil {
		return err
	}

	pc, err = e.consumeAttempt(ctx, pc, in)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(pc.Code), []byte(in.Code)) != 1 {
		return entity.ErrCodeMismatch
	}

	ok, err := e.repoDB.MarkUsed(ctx, pc.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark passcode used", "passcode_id", pc.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !ok {
		// A concurrent verifier consumed it between our compare and ours.
		return entity.ErrAlreadyUsed
	}

	return nil
}

// findCurrent fetches the active entry and applies the lifecycle guards. The
// guards double what FindActive already filters, so a store that returns a
// stale or unfiltered row still cannot leak a dead code past us. Absence is
// reported coarsely: never-issued, expired, used and exhausted all collapse
// into ErrNotFound so probing reveals nothing.
func (e *Engine) findCurrent(ctx context.Context, in VerifyInput) (*entity.Passcode, error) {
	pc, err := e.repoDB.FindActive(ctx, in.UserID, in.Channel, in.Purpose)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find active passcode",
			"user_id", in.UserID, "channel", in.Channel.String(), "purpose", in.Purpose.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	switch {
	case pc.Used:
		return nil, entity.ErrAlreadyUsed
	case pc.IsExpired(e.clock.Now()):
		return nil, entity.ErrExpired
	case pc.IsExhausted():
		// Checked before the increment: attempts counts consumed tries, so
		// the third try may still match and the fourth never runs.
		return nil, entity.ErrAttemptsExceeded
	default:
		return pc, nil
	}
}

func (e *Engine) consumeAttempt(ctx context.Context, pc *entity.Passcode, in VerifyInput) (*entity.Passcode, error) {
	for i := 0; i < casRetries; i++ {
		ok, err := e.repoDB.IncrementAttempts(ctx, pc.ID, pc.Attempts)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo increment passcode attempts", "passcode_id", pc.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		if ok {
			pc.Attempts++
			return pc, nil
		}

		// Lost the race, re-read whatever is active now and re-run the guards.
		pc, err = e.findCurrent(ctx, in)
		if err != nil {
			return nil, err
		}
	}

	return nil, goerror.NewServer(errAttemptContention)
}
