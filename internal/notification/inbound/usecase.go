package inbound

import (
	"context"

	"github.com/tenangapp/tenang/internal/notification/entity"
	"github.com/tenangapp/tenang/internal/notification/usecase"
)

type ucConsumer interface {
	ConsumePasscodeIssued(ctx context.Context, in usecase.ConsumePasscodeIssuedInput) error
	ConsumeUserRegistered(ctx context.Context, in usecase.ConsumeUserRegisteredInput) error
	ConsumePasswordChanged(ctx context.Context, in usecase.ConsumePasswordChangedInput) error
}

type uc interface {
	ucConsumer

	DeviceRegister(ctx context.Context, in usecase.DeviceRegisterInput) error
	DeviceRemove(ctx context.Context, in usecase.DeviceRemoveInput) error
	ListInbox(ctx context.Context, in usecase.ListInboxInput) ([]entity.NotificationItem, error)
	CountUnreadInbox(ctx context.Context) (int64, error)
	MarkInboxRead(ctx context.Context, in usecase.MarkInboxReadInput) error
	MarkAllInboxRead(ctx context.Context) error
	DeleteInbox(ctx context.Context, in usecase.DeleteInboxInput) error
}
