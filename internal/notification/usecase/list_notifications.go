package usecase

import (
	"context"
	"log/slog"

	"github.com/tenangapp/tenang/internal/notification/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

type ListInboxInput struct {
	Status string `validate:"omitempty,oneof=all unread read"`
	Limit  int32  `validate:"omitempty,gte=1,lte=100"`
	Offset int32  `validate:"omitempty,gte=0"`
}

func (s *Usecase) ListInbox(ctx context.Context, in ListInboxInput) (_ []entity.NotificationItem, err error) {
	ctx, span := s.startSpan(ctx, "ListInbox")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if in.Limit == 0 {
		in.Limit = 20
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	items, err := s.repoDB.ListNotifications(ctx, clm.UserID, entity.ParseNotificationStatus(in.Status), in.Limit, in.Offset)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list notifications", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return items, nil
}

func (s *Usecase) CountUnreadInbox(ctx context.Context) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountUnreadInbox")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return 0, err
	}

	count, err := s.repoDB.CountUnreadNotifications(ctx, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count unread notifications", "user_id", clm.UserID, "error", err)
		return 0, goerror.NewServer(err)
	}

	return count, nil
}
