package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/viant/wfconsole/service/messaging"
)

// ErrQueueFull is returned by Publish on a full non-blocking queue.
var ErrQueueFull = errors.New("messaging: queue full")

// Config controls the in-memory queue.
type Config struct {
	// Buffer is the channel capacity.
	Buffer int `json:"buffer,omitempty" yaml:"buffer,omitempty"`
	// MaxRetries is how many times a nacked message is redelivered.
	MaxRetries int `json:"maxRetries,omitempty" yaml:"maxRetries,omitempty"`
	// NonBlocking makes Publish fail with ErrQueueFull instead of waiting.
	NonBlocking bool `json:"nonBlocking,omitempty" yaml:"nonBlocking,omitempty"`
}

// DefaultConfig returns the default queue configuration.
func DefaultConfig() Config {
	return Config{Buffer: 100, MaxRetries: 1, NonBlocking: true}
}

// Message is an in-memory queue item.
type Message[T any] struct {
	id       string
	payload  T
	queue    *Queue[T]
	attempts int
	mu       sync.Mutex
	done     bool
}

// ID returns the message id.
func (m *Message[T]) ID() string { return m.id }

// T returns the payload.
func (m *Message[T]) T() *T { return &m.payload }

// Ack marks the message processed.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.done = true
	return nil
}

// Nack redelivers the message while retries remain, otherwise it is dropped
// and counted.
func (m *Message[T]) Nack(_ error) error {
	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.done = true
	m.mu.Unlock()

	if m.attempts > m.queue.config.MaxRetries {
		m.queue.dropped()
		return nil
	}
	retry := &Message[T]{id: m.id, payload: m.payload, queue: m.queue, attempts: m.attempts + 1}
	select {
	case m.queue.messages <- retry:
	default:
		m.queue.dropped()
	}
	return nil
}

// Queue is a channel backed messaging.Queue.
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
	mu       sync.Mutex
	drops    int
}

var _ messaging.Queue[any] = (*Queue[any])(nil)

// NewQueue creates a queue.
func NewQueue[T any](config Config) *Queue[T] {
	if config.Buffer <= 0 {
		config.Buffer = DefaultConfig().Buffer
	}
	return &Queue[T]{messages: make(chan *Message[T], config.Buffer), config: config}
}

// Publish enqueues a copy of t.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if t == nil {
		return fmt.Errorf("messaging: nil payload")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &Message[T]{id: uuid.New().String(), payload: *t, queue: q, attempts: 1}
	if q.config.NonBlocking {
		select {
		case q.messages <- msg:
			return nil
		default:
			q.dropped()
			return ErrQueueFull
		}
	}
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume returns the next message.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the number of pending messages.
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// Dropped returns how many messages were discarded.
func (q *Queue[T]) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.drops
}

func (q *Queue[T]) dropped() {
	q.mu.Lock()
	q.drops++
	q.mu.Unlock()
}
