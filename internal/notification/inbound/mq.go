package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/tenangapp/tenang/internal/pkg/config"
	"github.com/tenangapp/tenang/internal/pkg/goroutine"
	"github.com/tenangapp/tenang/internal/pkg/idempotency"
	"github.com/tenangapp/tenang/internal/pkg/instrument"
	"github.com/tenangapp/tenang/internal/pkg/messaging"
	"github.com/tenangapp/tenang/internal/pkg/uid"
	"github.com/tenangapp/tenang/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	idem idempotency.Idempotency,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHanlder := &MQHandler{uc: uc, uuid: uuid, idem: idem, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")

	var consumers = []struct {
		name               string
		topic              string // destination where publisher sent message
		nsqConsumerName    string // for nsq
		natsConsumerName   string // for nats
		kafkaConsumerName  string // for kafka
		pubsubConsumerName string // for google pubusb
		handler            messaging.Handler
	}{
		{
			name:               event.PasscodeIssuedConsumerNotification,
			topic:              event.PasscodeIssuedDestination,
			nsqConsumerName:    event.PasscodeIssuedConsumerNotification,
			natsConsumerName:   event.PasscodeIssuedConsumerNotification,
			kafkaConsumerName:  event.PasscodeIssuedConsumerNotification,
			pubsubConsumerName: event.PasscodeIssuedConsumerNotification,
			handler:            mqHanlder.PasscodeIssuedNotification,
		},
		{
			name:               event.UserRegisteredConsumerNotification,
			topic:              event.UserRegisteredDestination,
			nsqConsumerName:    event.UserRegisteredConsumerNotification,
			natsConsumerName:   event.UserRegisteredConsumerNotification,
			kafkaConsumerName:  event.UserRegisteredConsumerNotification,
			pubsubConsumerName: event.UserRegisteredConsumerNotification,
			handler:            mqHanlder.UserRegisteredNotification,
		},
		{
			name:               event.PasswordChangedConsumerNotification,
			topic:              event.PasswordChangedDestination,
			nsqConsumerName:    event.PasswordChangedConsumerNotification,
			natsConsumerName:   event.PasswordChangedConsumerNotification,
			kafkaConsumerName:  event.PasswordChangedConsumerNotification,
			pubsubConsumerName: event.PasswordChangedConsumerNotification,
			handler:            mqHanlder.PasswordChangedNotification,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithChannel(consumer.nsqConsumerName),
					messaging.WithQueueGroup(consumer.natsConsumerName),
					messaging.WithGroup(consumer.kafkaConsumerName),
					messaging.WithSubscription(consumer.pubsubConsumerName),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
					messaging.WithMaxInFlight(10),
				)
			})
		}
	}
}
