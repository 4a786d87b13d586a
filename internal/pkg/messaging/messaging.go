package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrUnsupported reports a capability the active broker does not offer,
// for example delayed delivery on brokers without a deferral queue.
var ErrUnsupported = errors.New("messaging: unsupported operation")

// Messaging combines publishing and consuming behind one client.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher sends messages to a destination. The destination maps to a
// topic, subject or queue depending on the broker.
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer reads messages from a source until the context ends.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes one received message. What a returned error does to
// the message (requeue, drop, leave unacked) is decided by the consume
// options, not by the handler.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a broker-agnostic message to publish. Brokers read
// the fields they understand and ignore the rest.
type OutgoingMessage struct {
	// Body is the payload.
	Body []byte

	// Key selects the partition on Kafka-like brokers.
	Key []byte

	// Headers carry binary values and may repeat keys.
	Headers []Header

	// Attributes model string metadata on brokers that have it (Pub/Sub).
	Attributes map[string]string

	// OrderingKey groups messages for ordered delivery (Pub/Sub).
	OrderingKey string

	// Delay defers delivery on brokers that support it.
	Delay time.Duration

	// Metadata passes broker-specific publish settings through.
	Metadata map[string]any
}

// Header is one message header entry.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult reports what the broker assigned to a published message.
// Fields stay zero when the broker has no equivalent.
type PublishResult struct {
	MessageID string

	Topic     string
	Partition int32
	Offset    int64

	Sequence uint64

	Timestamp time.Time

	// Raw exposes the underlying broker result when available.
	Raw any
}

// Message is a received message.
type Message interface {
	Body() []byte
	Key() []byte
	Headers() []Header
	Attributes() map[string]string

	ID() string
	Topic() string
	Subject() string
	Timestamp() time.Time

	// Ack marks the message as processed.
	Ack(ctx context.Context) error
}

// Nackable requests redelivery of a message.
type Nackable interface {
	Nack(ctx context.Context) error
}

// Extendable pushes out the ack deadline of an in-flight message.
type Extendable interface {
	Extend(ctx context.Context, d time.Duration) error
}

// MetadataCarrier exposes broker-specific delivery metadata.
type MetadataCarrier interface {
	Metadata() map[string]any
}

// RawCarrier exposes the underlying broker message.
type RawCarrier interface {
	Raw() any
}
