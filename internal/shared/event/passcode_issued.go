package event

import "time"

const PasscodeIssuedDestination string = "passcode_issued"
const PasscodeIssuedConsumerNotification string = "passcode_issued_notification"

// PasscodeIssuedMessage carries a one time code to the delivery worker. The
// code travels only on the broker, it must never appear in logs.
type PasscodeIssuedMessage struct {
	UserID      int64     `json:"user_id"`
	Channel     string    `json:"channel"`
	Address     string    `json:"address"`
	Purpose     string    `json:"purpose"`
	Code        string    `json:"code"`
	ExpiresAt   time.Time `json:"expires_at"`
	RequestedAt time.Time `json:"requested_at"`
}
