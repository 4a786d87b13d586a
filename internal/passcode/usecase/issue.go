package usecase

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math/big"
	"strconv"
	"time"

	"github.com/tenangapp/tenang/internal/passcode/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

type (
	IssueInput struct {
		UserID  int64          `validate:"required,gt=0"`
		Channel entity.Channel `validate:"required"`
		Address string         `validate:"required,max=255"`
		Purpose entity.Purpose `validate:"required"`
		// TTL of zero means the configured default.
		TTL time.Duration
	}

	IssueOutput struct {
		Code      string
		ExpiresAt time.Time
	}
)

// Issue invalidates every unused code for (user, channel, purpose) and
// persists a fresh one. The returned code is for dispatch only: it must not
// be logged or echoed in a response.
func (e *Engine) Issue(ctx context.Context, in IssueInput) (*IssueOutput, error) {
	ctx, span := e.startSpan(ctx, "Issue")
	defer span.End()

	if err := e.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.Channel.IsUnknown() || in.Purpose.IsUnknown() {
		return nil, goerror.NewBusiness("unsupported channel or purpose", goerror.CodeInvalidInput)
	}

	if _, err := e.repoDB.DeleteUnused(ctx, in.UserID, in.Channel, in.Purpose); err != nil {
		slog.ErrorContext(ctx, "failed to repo delete unused passcodes",
			"user_id", in.UserID, "channel", in.Channel.String(), "purpose", in.Purpose.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	code, err := generateCode()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate passcode", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := e.clock.Now()
	pc := entity.Passcode{
		ID:        e.uid.Generate(),
		UserID:    in.UserID,
		Channel:   in.Channel,
		Address:   in.Address,
		Purpose:   in.Purpose,
		Code:      code,
		Used:      false,
		Attempts:  0,
		ExpiresAt: now.Add(e.ttlOrDefault(in.TTL)),
		CreatedAt: now,
	}

	if err := e.repoDB.Create(ctx, pc); err != nil {
		slog.ErrorContext(ctx, "failed to repo create passcode",
			"user_id", in.UserID, "channel", in.Channel.String(), "purpose", in.Purpose.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	return &IssueOutput{Code: code, ExpiresAt: pc.ExpiresAt}, nil
}

// generateCode draws uniformly from [100000, 999999]. crypto/rand for every
// purpose: with only 3 attempts allowed, code predictability is the attack
// surface that matters.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
