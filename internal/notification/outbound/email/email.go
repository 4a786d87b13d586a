// Package email adapts the shared mail client to the notification
// module's outbound port, wrapping each delivery in its own span.
package email

import (
	"context"

	"github.com/tenangapp/tenang/internal/pkg/instrument"
	"github.com/tenangapp/tenang/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Mail struct {
	client mail.Mail
	tracer trace.Tracer
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{
		client: client,
		tracer: ins.Tracer("notification.outbound.email"),
	}
}

// Send delivers msg through the configured mail client.
func (m *Mail) Send(ctx context.Context, msg mail.Message) error {
	ctx, span := m.tracer.Start(ctx, "Send")
	defer span.End()

	err := m.client.Send(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}
