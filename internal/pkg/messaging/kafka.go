package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Required-input errors returned by the Kafka driver.
var (
	ErrKafkaTopicRequired   = errors.New("messaging: kafka topic is required")
	ErrKafkaHandlerRequired = errors.New("messaging: kafka handler is required")
	ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")
	ErrKafkaGroupRequired   = errors.New("messaging: kafka consumer group is required")
)

// KafkaConfig configures the Kafka driver.
type KafkaConfig struct {
	// Brokers lists Kafka broker addresses.
	Brokers []string

	// Dialer configures broker connections.
	Dialer *kafka.Dialer

	// WriterConfig and ReaderConfig override the defaults. Topic, group,
	// brokers and dialer are still filled in per call when left zero.
	WriterConfig *kafka.WriterConfig
	ReaderConfig *kafka.ReaderConfig
}

// Kafka is a Messaging implementation backed by kafka-go. Writers are
// created lazily per topic and reused; each Consume call owns one reader.
type Kafka struct {
	brokers []string
	dialer  *kafka.Dialer

	writerConfig *kafka.WriterConfig
	readerConfig *kafka.ReaderConfig

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	readers []*kafka.Reader
	closed  bool
}

// NewKafka constructs a Kafka messaging client.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	return &Kafka{
		brokers:      append([]string{}, cfg.Brokers...),
		dialer:       cfg.Dialer,
		writerConfig: cfg.WriterConfig,
		readerConfig: cfg.ReaderConfig,
		writers:      map[string]*kafka.Writer{},
	}, nil
}

// Close shuts down all readers and writers.
func (k *Kafka) Close() error {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	writers := slices.Collect(maps.Values(k.writers))
	readers := k.readers
	k.writers = nil
	k.readers = nil
	k.mu.Unlock()

	var closeErr error
	for _, r := range readers {
		closeErr = errors.Join(closeErr, r.Close())
	}
	for _, w := range writers {
		closeErr = errors.Join(closeErr, w.Close())
	}
	return closeErr
}

// Publish sends a message to a Kafka topic. Delayed delivery is not
// supported by Kafka and returns ErrUnsupported.
func (k *Kafka) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrKafkaTopicRequired
	}
	if msg.Delay > 0 {
		return PublishResult{}, ErrUnsupported
	}
	if err := k.ensureOpen(); err != nil {
		return PublishResult{}, err
	}

	kmsg := kafka.Message{
		Key:   msg.Key,
		Value: msg.Body,
		Time:  time.Now(),
	}
	for _, h := range msg.Headers {
		if h.Key == "" {
			continue
		}
		kmsg.Headers = append(kmsg.Headers, kafka.Header{Key: h.Key, Value: h.Value})
	}

	if err := k.writerFor(destination).WriteMessages(ctx, kmsg); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: kafka publish: %w", err)
	}

	return PublishResult{
		Topic:     destination,
		Timestamp: kmsg.Time,
	}, nil
}

// Consume reads from a Kafka topic until ctx ends or an offset commit
// fails. WithGroup is mandatory.
func (k *Kafka) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if source == "" {
		return ErrKafkaTopicRequired
	}
	if handler == nil {
		return ErrKafkaHandlerRequired
	}

	co := newConsumeOptions(opts...)
	if co.group == "" {
		return ErrKafkaGroupRequired
	}
	if err := k.ensureOpen(); err != nil {
		return err
	}

	reader := k.openReader(source, co)
	if err := k.trackReader(reader); err != nil {
		return errors.Join(err, reader.Close())
	}

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgCh := make(chan kafka.Message)
	errCh := make(chan error, 1)

	go fetchKafka(consumeCtx, reader, msgCh, errCh)
	wg := spawnKafkaWorkers(consumeCtx, cancel, reader, handler, co.autoAck, concurrencyOrDefault(co.concurrency, 1), msgCh, errCh)

	waitErr := awaitKafka(ctx, errCh, wg)
	k.untrackReader(reader)
	if closeErr := reader.Close(); closeErr != nil {
		return errors.Join(waitErr, closeErr)
	}
	return waitErr
}

func (k *Kafka) ensureOpen() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return io.ErrClosedPipe
	}
	return nil
}

func (k *Kafka) writerFor(topic string) *kafka.Writer {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.writers == nil {
		k.writers = map[string]*kafka.Writer{}
	}
	if w, ok := k.writers[topic]; ok {
		return w
	}

	w := kafka.NewWriter(k.writerConfigFor(topic))
	k.writers[topic] = w
	return w
}

// writerConfigFor starts from the configured override, if any, and fills
// the per topic and connection fields the caller owns.
func (k *Kafka) writerConfigFor(topic string) kafka.WriterConfig {
	var cfg kafka.WriterConfig
	if k.writerConfig != nil {
		cfg = *k.writerConfig
	}
	cfg.Topic = topic
	if len(cfg.Brokers) == 0 {
		cfg.Brokers = k.brokers
	}
	if cfg.Dialer == nil {
		cfg.Dialer = k.dialer
	}
	if cfg.Balancer == nil {
		cfg.Balancer = &kafka.LeastBytes{}
	}
	return cfg
}

func (k *Kafka) openReader(topic string, opts consumeOptions) *kafka.Reader {
	var cfg kafka.ReaderConfig
	if k.readerConfig != nil {
		cfg = *k.readerConfig
	}
	cfg.Topic = topic
	cfg.GroupID = opts.group
	if len(cfg.Brokers) == 0 {
		cfg.Brokers = k.brokers
	}
	if cfg.Dialer == nil {
		cfg.Dialer = k.dialer
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 10e6
	}

	return kafka.NewReader(cfg)
}

func (k *Kafka) trackReader(reader *kafka.Reader) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return io.ErrClosedPipe
	}
	k.readers = append(k.readers, reader)
	return nil
}

func (k *Kafka) untrackReader(reader *kafka.Reader) {
	if reader == nil {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	for i := range k.readers {
		if k.readers[i] == reader {
			k.readers = append(k.readers[:i], k.readers[i+1:]...)
			return
		}
	}
}

// fetchKafka pumps fetched messages into msgCh until ctx ends or the
// reader fails. It owns closing msgCh.
func fetchKafka(ctx context.Context, reader *kafka.Reader, msgCh chan<- kafka.Message, errCh chan<- error) {
	defer close(msgCh)

	for {
		m, err := reader.FetchMessage(ctx)
		if err != nil {
			offerErr(errCh, err)
			return
		}

		select {
		case msgCh <- m:
		case <-ctx.Done():
			offerErr(errCh, ctx.Err())
			return
		}
	}
}

func spawnKafkaWorkers(
	ctx context.Context,
	cancel context.CancelFunc,
	reader *kafka.Reader,
	handler Handler,
	autoAck bool,
	concurrency int,
	msgCh <-chan kafka.Message,
	errCh chan<- error,
) *sync.WaitGroup {
	var wg sync.WaitGroup
	for range concurrency {
		wg.Go(func() {
			for m := range msgCh {
				if err := deliverKafka(ctx, reader, m, handler, autoAck); err != nil {
					offerErr(errCh, err)
					cancel()
					return
				}
			}
		})
	}
	return &wg
}

// deliverKafka runs the handler and, under auto-ack, commits or skips the
// offset. Handler errors do not stop the consumer, commit failures do.
func deliverKafka(ctx context.Context, reader *kafka.Reader, m kafka.Message, handler Handler, autoAck bool) error {
	wrapped := newKafkaMessage(reader, m)
	herr := callHandlerWithRecover(ctx, "kafka", func() error {
		return handler(ctx, wrapped)
	})

	if wrapped.hasResponded() || !autoAck {
		return nil
	}
	if herr == nil {
		return wrapped.Ack(ctx)
	}
	return wrapped.Nack(ctx)
}

func awaitKafka(ctx context.Context, errCh <-chan error, wg *sync.WaitGroup) error {
	select {
	case err := <-errCh:
		wg.Wait()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("messaging: kafka consume: %w", err)
	case <-ctx.Done():
		wg.Wait()
		return ctx.Err()
	}
}

func offerErr(ch chan<- error, err error) {
	if err == nil {
		return
	}
	select {
	case ch <- err:
	default:
	}
}
