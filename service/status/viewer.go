// Package status fetches and holds the status of one process instance.
package status

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/viant/wfconsole/i18n"
	"github.com/viant/wfconsole/model"
	"github.com/viant/wfconsole/service/activity"
	"github.com/viant/wfconsole/service/engine"
)

// Subscriber is notified with every status the viewer accepts.
type Subscriber func(status *model.ProcessStatus)

// Viewer shows the status of the last requested process.
type Viewer struct {
	mu                sync.RWMutex
	processInstanceID string
	status            *model.ProcessStatus
	changes           *Diff
	message           *model.Message
	loading           bool
	seq               uint64
	subscribers       []Subscriber

	engine engine.Engine
	log    activity.Appender
	t      i18n.Translator
}

// Option configures a Viewer.
type Option func(v *Viewer)

// WithTranslator sets the message translator.
func WithTranslator(translator i18n.Translator) Option {
	return func(v *Viewer) {
		v.t = translator
	}
}

// FetchStatus loads the status of id. Both direct requests and refreshes
// after task decisions go through here.
func (v *Viewer) FetchStatus(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		required := v.t("status.fetch.required", nil)
		v.mu.Lock()
		v.message = model.NewMessage(v.t("status.fetch.error", i18n.Params{"message": required}), model.ToneError)
		v.mu.Unlock()
		return model.NewValidationError("%s", required)
	}

	v.mu.Lock()
	v.seq++
	seq := v.seq
	v.processInstanceID = id
	v.loading = true
	v.mu.Unlock()

	status, err := v.engine.ProcessStatus(ctx, id)

	v.mu.Lock()
	latest := seq == v.seq
	if latest {
		v.loading = false
	}
	if err != nil {
		text := v.t("status.fetch.error", i18n.Params{"message": model.Describe(err)})
		if latest {
			v.message = model.NewMessage(text, model.ToneError)
		}
		v.mu.Unlock()
		v.log.Append(v.t("status.log.refresh.error", i18n.Params{"message": model.Describe(err)}))
		return err
	}

	state := string(status.State)
	if state == "" {
		state = v.t("statusTag.unknown", nil)
	}
	var subscribers []Subscriber
	if latest {
		v.changes = nil
		if previous := v.status; previous != nil && previous.ProcessInstanceID == status.ProcessInstanceID {
			changes, dErr := DiffVariables(id, previous.Variables, status.Variables)
			if dErr != nil {
				log.Printf("status: failed to diff variables of %s: %v", id, dErr)
			}
			v.changes = changes
		}
		v.status = status
		v.message = model.NewMessage(v.t("status.fetch.success", nil), model.ToneSuccess)
		subscribers = append(subscribers, v.subscribers...)
	}
	v.mu.Unlock()

	v.log.Append(v.t("status.log.refresh", i18n.Params{"id": id, "state": state}))
	for _, subscriber := range subscribers {
		subscriber(status)
	}
	return nil
}

// Refresh adapts FetchStatus to the task queue status refresher.
func (v *Viewer) Refresh(ctx context.Context, processInstanceID string) error {
	return v.FetchStatus(ctx, processInstanceID)
}

// Reset clears the displayed status and targets processInstanceID.
// In-flight fetches are discarded.
func (v *Viewer) Reset(processInstanceID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	v.processInstanceID = strings.TrimSpace(processInstanceID)
	v.status = nil
	v.changes = nil
	v.message = nil
	v.loading = false
}

// Subscribe registers a subscriber.
func (v *Viewer) Subscribe(subscriber Subscriber) {
	v.mu.Lock()
	v.subscribers = append(v.subscribers, subscriber)
	v.mu.Unlock()
}

// ProcessInstanceID returns the targeted process.
func (v *Viewer) ProcessInstanceID() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.processInstanceID
}

// Status returns the displayed status, or nil.
func (v *Viewer) Status() *model.ProcessStatus {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.status
}

// Changes returns the variable diff against the previously displayed status
// of the same process, or nil.
func (v *Viewer) Changes() *Diff {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.changes
}

// Message returns the current notice, or nil.
func (v *Viewer) Message() *model.Message {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.message == nil {
		return nil
	}
	ret := *v.message
	return &ret
}

// Loading reports whether a fetch is in flight.
func (v *Viewer) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loading
}

// New creates a viewer.
func New(eng engine.Engine, log activity.Appender, options ...Option) *Viewer {
	ret := &Viewer{engine: eng, log: log, t: i18n.Default()}
	for _, option := range options {
		option(ret)
	}
	return ret
}
