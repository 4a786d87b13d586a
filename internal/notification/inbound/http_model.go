package inbound

import (
	"time"

	"github.com/tenangapp/tenang/internal/pkg/valueobject"
)

type RegisterDeviceRequest struct {
	DeviceToken string `json:"device_token"`
	Platform    string `json:"platform"`
}

type RemoveDeviceRequest struct {
	DeviceToken string `json:"device_token"`
}

// NotificationResponse is one inbox row as the app renders it. Data is the
// trigger payload; read_at is absent while the item is unread.
type NotificationResponse struct {
	ID         int64               `json:"id"`
	CategoryID int64               `json:"category_id"`
	TriggerKey string              `json:"trigger_key"`
	Data       valueobject.JSONMap `json:"data" swaggertype:"object"`
	Metadata   valueobject.JSONMap `json:"metadata" swaggertype:"object"`
	ReadAt     *time.Time          `json:"read_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

type NotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
