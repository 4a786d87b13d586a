package entity

import (
	"strings"
)

// Channel is the transport a notification leaves through.
type Channel int16

const (
	ChannelUnknown Channel = 0
	ChannelInApp   Channel = 1
	ChannelEmail   Channel = 2
	ChannelSMS     Channel = 3
	ChannelPush    Channel = 4
)

// ChannelFromString parses the wire name of a channel, unknown names
// fold onto ChannelUnknown.
func ChannelFromString(raw string) Channel {
	switch strings.TrimSpace(raw) {
	case "in_app":
		return ChannelInApp
	case "email":
		return ChannelEmail
	case "sms":
		return ChannelSMS
	case "push":
		return ChannelPush
	default:
		return ChannelUnknown
	}
}

func (c Channel) String() string {
	switch c {
	case ChannelInApp:
		return "in_app"
	case ChannelEmail:
		return "email"
	case ChannelSMS:
		return "sms"
	case ChannelPush:
		return "push"
	default:
		return "unknown"
	}
}

// DeliveryStatus tracks one delivery attempt from queued to its
// terminal sent or failed state.
type DeliveryStatus int16

const (
	DeliveryStatusUnknown    DeliveryStatus = 0
	DeliveryStatusQueued     DeliveryStatus = 1
	DeliveryStatusProcessing DeliveryStatus = 2
	DeliveryStatusSent       DeliveryStatus = 3
	DeliveryStatusFailed     DeliveryStatus = 4
)

func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryStatusQueued:
		return "queued"
	case DeliveryStatusProcessing:
		return "processing"
	case DeliveryStatusSent:
		return "sent"
	case DeliveryStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TriggerKey names the event that caused a notification, it selects the
// template and shows up on every delivery log row.
type TriggerKey string

const (
	TriggerKeyPasscodeVerification  TriggerKey = "passcode_verification"
	TriggerKeyPasscodePasswordReset TriggerKey = "passcode_password_reset"
	TriggerKeyPasscodeLogin         TriggerKey = "passcode_login"
	TriggerKeyUserWelcome           TriggerKey = "user_welcome"
	TriggerKeyPasswordChanged       TriggerKey = "password_changed"
)

func (tk TriggerKey) String() string {
	return string(tk)
}
