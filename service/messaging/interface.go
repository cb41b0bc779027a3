// Package messaging defines the queue used to fan console events out to
// observers outside the component tree.
package messaging

import (
	"context"
)

// Queue is a typed message queue.
type Queue[T any] interface {
	// Publish adds a message with payload t.
	Publish(ctx context.Context, t *T) error

	// Consume blocks until a message is available or ctx is done.
	Consume(ctx context.Context) (Message[T], error)
}

// Message is a consumed queue item.
type Message[T any] interface {
	// T returns the payload.
	T() *T

	// Ack marks the message processed.
	Ack() error

	// Nack marks the message failed; the queue may redeliver it.
	Nack(err error) error
}
