package event

import "time"

const PasswordChangedDestination string = "password_changed"
const PasswordChangedConsumerNotification string = "password_changed_notification"

type PasswordChangedMessage struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	ChangedAt time.Time `json:"changed_at"`
}
