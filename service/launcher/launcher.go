// Package launcher starts new process instances from the start form.
package launcher

import (
	"context"
	"strings"
	"sync"

	"github.com/viant/wfconsole/i18n"
	"github.com/viant/wfconsole/model"
	"github.com/viant/wfconsole/progress"
	"github.com/viant/wfconsole/service/activity"
	"github.com/viant/wfconsole/service/engine"
	"github.com/viant/wfconsole/service/identity"
)

// Listener runs after a process was started.
type Listener func(ctx context.Context, response *model.StartResponse)

// Launcher owns the start form.
type Launcher struct {
	mu        sync.RWMutex
	form      Form
	message   *model.Message
	loading   bool
	listeners []Listener

	engine   engine.Engine
	identity identity.Source
	log      activity.Appender
	progress *progress.Progress
	t        i18n.Translator
}

// Option configures a Launcher.
type Option func(l *Launcher)

// WithTranslator sets the message translator.
func WithTranslator(translator i18n.Translator) Option {
	return func(l *Launcher) {
		l.t = translator
	}
}

// WithForm sets the initial form.
func WithForm(form Form) Option {
	return func(l *Launcher) {
		l.form = form
	}
}

// WithProgress sets the tracker counting started processes.
func WithProgress(tracker *progress.Progress) Option {
	return func(l *Launcher) {
		l.progress = tracker
	}
}

// Start submits form with the acting identity as initiator.
func (l *Launcher) Start(ctx context.Context, form Form) (*model.StartResponse, error) {
	l.mu.Lock()
	l.form = form
	l.message = nil
	l.mu.Unlock()

	if field := form.BlankField(); field != "" {
		return nil, l.fail(model.NewValidationError("%s", l.t("start.validation.participant", i18n.Params{"field": field})))
	}
	payload, err := ParsePayload(form.PayloadText)
	if err != nil {
		return nil, l.fail(err)
	}
	request := &model.StartRequest{
		Initiator:  l.identity.Get().UserID,
		ApproverID: strings.TrimSpace(form.ApproverID),
		ExecutorID: strings.TrimSpace(form.ExecutorID),
		Payload:    payload,
	}

	l.setLoading(true)
	response, err := l.engine.StartProcess(ctx, request)
	l.setLoading(false)
	if err != nil {
		l.progress.Update(progress.Delta{Failed: 1})
		return nil, l.fail(err)
	}
	l.progress.Update(progress.Delta{Started: 1})

	state := string(response.State)
	if state == "" {
		state = l.t("statusTag.unknown", nil)
	}
	text := l.t("start.success", i18n.Params{"id": response.ProcessInstanceID, "state": state})
	l.mu.Lock()
	l.message = model.NewMessage(text, model.ToneSuccess)
	listeners := append([]Listener{}, l.listeners...)
	l.mu.Unlock()
	l.log.Append(text)

	for _, listener := range listeners {
		listener(ctx, response)
	}
	return response, nil
}

// StartDefault submits the current form.
func (l *Launcher) StartDefault(ctx context.Context) (*model.StartResponse, error) {
	return l.Start(ctx, l.Form())
}

// OnStarted registers a listener.
func (l *Launcher) OnStarted(listener Listener) {
	l.mu.Lock()
	l.listeners = append(l.listeners, listener)
	l.mu.Unlock()
}

// Reset restores the default form and clears the message.
func (l *Launcher) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.form = DefaultForm()
	l.message = nil
}

// ClearMessage drops the current notice; called on identity change.
func (l *Launcher) ClearMessage() {
	l.mu.Lock()
	l.message = nil
	l.mu.Unlock()
}

// Form returns the current form.
func (l *Launcher) Form() Form {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.form
}

// Message returns the current notice, or nil.
func (l *Launcher) Message() *model.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.message == nil {
		return nil
	}
	ret := *l.message
	return &ret
}

// Loading reports whether a start is in flight.
func (l *Launcher) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

func (l *Launcher) fail(err error) error {
	text := l.t("start.error", i18n.Params{"message": model.Describe(err)})
	l.mu.Lock()
	l.message = model.NewMessage(text, model.ToneError)
	l.mu.Unlock()
	l.log.Append(text)
	return err
}

func (l *Launcher) setLoading(loading bool) {
	l.mu.Lock()
	l.loading = loading
	l.mu.Unlock()
}

// New creates a launcher with the default form.
func New(eng engine.Engine, source identity.Source, log activity.Appender, options ...Option) *Launcher {
	ret := &Launcher{form: DefaultForm(), engine: eng, identity: source, log: log, t: i18n.Default()}
	for _, option := range options {
		option(ret)
	}
	return ret
}
