// Package activity keeps the session's append-only, newest-first record of
// user-visible events.
package activity

import (
	"context"
	"log"
	"sync"

	"github.com/viant/wfconsole/internal/clock"
	"github.com/viant/wfconsole/internal/idgen"
	"github.com/viant/wfconsole/model"
	"github.com/viant/wfconsole/service/messaging"
)

// Appender is the write side components depend on.
type Appender interface {
	Append(message string) *model.Entry
}

// Log is the activity log. Entries are never removed or modified.
type Log struct {
	mu      sync.RWMutex
	entries []*model.Entry
	queue   messaging.Queue[model.Entry]
}

// Option configures a Log.
type Option func(l *Log)

// WithQueue publishes every appended entry to queue.
func WithQueue(queue messaging.Queue[model.Entry]) Option {
	return func(l *Log) {
		l.queue = queue
	}
}

// Append records message stamped with the local time and returns the entry.
func (l *Log) Append(message string) *model.Entry {
	entry := &model.Entry{ID: idgen.New(), Timestamp: clock.Stamp(), Message: message}
	l.mu.Lock()
	l.entries = append([]*model.Entry{entry}, l.entries...)
	l.mu.Unlock()

	if l.queue != nil {
		published := *entry
		if err := l.queue.Publish(context.Background(), &published); err != nil {
			log.Printf("activity: failed to publish entry %s: %v", entry.ID, err)
		}
	}
	return entry
}

// Entries returns a newest-first copy of the log.
func (l *Log) Entries() []model.Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ret := make([]model.Entry, len(l.entries))
	for i, entry := range l.entries {
		ret[i] = *entry
	}
	return ret
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// New creates an empty log.
func New(options ...Option) *Log {
	ret := &Log{}
	for _, option := range options {
		option(ret)
	}
	return ret
}
