package sms

import (
	"context"
	"io"
)

// Message represents an SMS payload.
//
// Fields are intentionally provider-agnostic so they can be submitted to any
// gateway implementation.
type Message struct {
	// From is an optional sender id; fallback depends on implementation.
	From string
	// To is the destination phone number in E.164 format.
	To string
	// Body is the message text.
	Body string
}

// SMS abstracts an SMS provider (HTTP gateway, third-party API, etc).
type SMS interface {
	io.Closer
	// Send dispatches the given message using the underlying provider.
	Send(ctx context.Context, msg Message) error
}
