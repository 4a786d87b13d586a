package mail

import (
	"context"
	"io"
)

// Message is a provider-agnostic email payload. TextBody is the fallback
// rendering; when HTMLBody is also set the sender builds a multipart
// message carrying both.
type Message struct {
	// From overrides the configured default sender when set.
	From     string
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mail abstracts an email provider so usecases never touch SMTP details.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
