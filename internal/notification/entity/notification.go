package entity

import (
	"time"

	"github.com/tenangapp/tenang/internal/pkg/valueobject"
)

// CreateNotification is the write model for one inbox row. Data is the
// trigger payload the app renders from; Metadata is reserved for client
// hints and stays empty today.
type CreateNotification struct {
	ID         int64
	UserID     int64
	CategoryID int64
	TriggerKey TriggerKey
	Data       valueobject.JSONMap
	Metadata   valueobject.JSONMap
}

// CreateDeliveryLog opens the delivery record in the queued state, before
// any provider call happens.
type CreateDeliveryLog struct {
	NotificationID int64
	Channel        Channel
	Status         DeliveryStatus
}

// UpdateDeliveryLog settles a delivery log after the provider answered.
// NextRetryAt is set only on failure.
type UpdateDeliveryLog struct {
	ID               int64
	Status           DeliveryStatus
	ProviderResponse valueobject.JSONMap
	NextRetryAt      *time.Time
}

// Template is a DB-stored message template, one per (trigger, channel).
// Subject is meaningless for the SMS channel and stays empty there.
type Template struct {
	ID         int64
	TriggerKey TriggerKey
	CategoryID int64
	Channel    Channel
	Subject    string
	Body       string
}

// NotificationItem is the read model the inbox listing returns.
type NotificationItem struct {
	ID         int64
	CategoryID int64
	TriggerKey TriggerKey
	Data       valueobject.JSONMap
	Metadata   valueobject.JSONMap
	ReadAt     *time.Time
	CreatedAt  time.Time
}
