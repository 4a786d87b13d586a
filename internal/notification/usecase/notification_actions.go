package usecase

import (
	"context"
	"log/slog"

	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

type (
	MarkInboxReadInput struct {
		ID int64 `validate:"required,gt=0"`
	}

	DeleteInboxInput struct {
		ID int64 `validate:"required,gt=0"`
	}
)

func (s *Usecase) MarkInboxRead(ctx context.Context, in MarkInboxReadInput) error {
	ctx, span := s.startSpan(ctx, "MarkInboxRead")
	defer span.End()

	return s.inboxRowAction(ctx, "mark inbox read", in, in.ID, s.repoDB.MarkNotificationRead)
}

func (s *Usecase) DeleteInbox(ctx context.Context, in DeleteInboxInput) error {
	ctx, span := s.startSpan(ctx, "DeleteInbox")
	defer span.End()

	return s.inboxRowAction(ctx, "delete inbox notification", in, in.ID, s.repoDB.SoftDeleteNotification)
}

func (s *Usecase) MarkAllInboxRead(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "MarkAllInboxRead")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return err
	}

	if _, err := s.repoDB.MarkNotificationsReadAll(ctx, clm.UserID); err != nil {
		slog.ErrorContext(ctx, "failed to repo mark all inbox read", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

// inboxRowAction runs a single-row mutation scoped to the caller's own inbox.
// The repo reports whether a row changed; no row means the ID is stale or
// belongs to someone else, and both read as not-found to the caller.
func (s *Usecase) inboxRowAction(
	ctx context.Context,
	what string,
	in any,
	id int64,
	mutate func(ctx context.Context, userID, notificationID int64) (bool, error),
) error {
	clm, err := s.requireAuth(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	changed, err := mutate(ctx, clm.UserID, id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo "+what, "user_id", clm.UserID, "notification_id", id, "error", err)
		return goerror.NewServer(err)
	}
	if !changed {
		return goerror.NewBusiness("inbox notification not found", goerror.CodeNotFound)
	}

	return nil
}
