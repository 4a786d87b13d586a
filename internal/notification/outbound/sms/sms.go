// Package sms adapts the shared SMS client to the notification module's
// outbound port, wrapping each delivery in its own span.
package sms

import (
	"context"

	"github.com/tenangapp/tenang/internal/pkg/instrument"
	pkgsms "github.com/tenangapp/tenang/internal/pkg/sms"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type SMS struct {
	client pkgsms.SMS
	tracer trace.Tracer
}

func New(client pkgsms.SMS, ins instrument.Instrumentation) *SMS {
	return &SMS{
		client: client,
		tracer: ins.Tracer("notification.outbound.sms"),
	}
}

// Send delivers msg through the configured SMS client.
func (s *SMS) Send(ctx context.Context, msg pkgsms.Message) error {
	ctx, span := s.tracer.Start(ctx, "Send")
	defer span.End()

	err := s.client.Send(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}
