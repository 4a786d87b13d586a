// Package messaging abstracts the event transport between modules.
//
// Producers publish an OutgoingMessage to a destination and consumers run
// a Handler against a source; which broker actually moves the bytes (NSQ,
// Kafka, NATS or Google Pub/Sub) is chosen by configuration through
// NewFromDriver. Business code depends only on the interfaces here and
// never names a concrete broker.
package messaging
