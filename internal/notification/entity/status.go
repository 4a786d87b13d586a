package entity

// NotificationStatus names the read-state filters accepted by the inbox
// listing. An empty or unknown value falls back to NotificationStatusAll.
type NotificationStatus string

const (
	NotificationStatusAll    NotificationStatus = "all"
	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)

// ParseNotificationStatus maps a raw query value onto a filter.
func ParseNotificationStatus(raw string) NotificationStatus {
	switch NotificationStatus(raw) {
	case NotificationStatusUnread:
		return NotificationStatusUnread
	case NotificationStatusRead:
		return NotificationStatusRead
	default:
		return NotificationStatusAll
	}
}
