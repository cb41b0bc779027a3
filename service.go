package wfconsole

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/viant/wfconsole/i18n"
	"github.com/viant/wfconsole/model"
	"github.com/viant/wfconsole/policy"
	"github.com/viant/wfconsole/progress"
	"github.com/viant/wfconsole/service/activity"
	"github.com/viant/wfconsole/service/engine"
	"github.com/viant/wfconsole/service/gateway"
	"github.com/viant/wfconsole/service/identity"
	"github.com/viant/wfconsole/service/launcher"
	"github.com/viant/wfconsole/service/messaging"
	"github.com/viant/wfconsole/service/messaging/memory"
	"github.com/viant/wfconsole/service/prompt"
	"github.com/viant/wfconsole/service/router"
	"github.com/viant/wfconsole/service/status"
	"github.com/viant/wfconsole/service/taskqueue"
	"github.com/viant/wfconsole/tracing"
)

// Service is one operator console session.
type Service struct {
	config     *Config
	translator i18n.Translator
	httpClient *http.Client
	prompt     prompt.Provider
	queue      messaging.Queue[model.Entry]
	engine     engine.Engine

	identity *identity.Store
	log      *activity.Log
	router   *router.Router
	approval *taskqueue.Controller
	manual   *taskqueue.Controller
	viewer   *status.Viewer
	launcher *launcher.Launcher
	progress *progress.Progress

	mu     sync.RWMutex
	latest *model.ProcessStatus
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if len(s.config.Personas) == 0 {
		s.config.Personas = identity.DefaultPersonas()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.translator == nil {
		translator, err := i18n.New(s.config.Locale)
		if err != nil {
			return err
		}
		s.translator = translator
	}
	if tc := s.config.Tracing; tc.Enabled {
		if err := tracing.Init(tc.Service, tc.Version, tc.Output); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
	}

	s.identity = identity.NewStore(s.initialIdentity())
	if s.engine == nil {
		eng, err := s.newEngine()
		if err != nil {
			return err
		}
		s.engine = eng
	}
	if s.queue == nil && s.config.Activity.FanOut {
		s.queue = memory.NewQueue[model.Entry](memory.Config{Buffer: s.config.Activity.Buffer, NonBlocking: true})
	}
	var logOptions []activity.Option
	if s.queue != nil {
		logOptions = append(logOptions, activity.WithQueue(s.queue))
	}
	s.log = activity.New(logOptions...)

	s.router = router.New()
	s.progress = progress.New()
	s.viewer = status.New(s.engine, s.log, status.WithTranslator(s.translator))
	s.viewer.Subscribe(s.setLatest)
	queueOptions := []taskqueue.Option{
		taskqueue.WithTranslator(s.translator),
		taskqueue.WithStatusRefresher(s.viewer.Refresh),
		taskqueue.WithPolicy(policy.FromConfig(s.config.Decision)),
		taskqueue.WithProgress(s.progress),
	}
	if s.prompt != nil {
		queueOptions = append(queueOptions, taskqueue.WithPrompt(s.prompt))
	}
	s.approval = taskqueue.New(model.RoleApprover, s.engine, s.identity, s.log, queueOptions...)
	s.manual = taskqueue.New(model.RoleExecutor, s.engine, s.identity, s.log, queueOptions...)
	s.launcher = launcher.New(s.engine, s.identity, s.log, launcher.WithTranslator(s.translator), launcher.WithProgress(s.progress))
	s.launcher.OnStarted(s.followProcess)
	return nil
}

func (s *Service) initialIdentity() model.Identity {
	persona := s.config.Personas.Lookup(s.config.Identity.Persona)
	if persona == nil {
		persona = s.config.Personas[0]
	}
	return persona.Identity(s.translator)
}

func (s *Service) newEngine() (engine.Engine, error) {
	var options []gateway.Option
	if s.httpClient != nil {
		options = append(options, gateway.WithHTTPClient(s.httpClient))
	}
	if secret := s.config.Engine.TokenSecret; secret != nil {
		token, err := gateway.LoadToken(context.Background(), secret.URL, secret.Key)
		if err != nil {
			return nil, err
		}
		options = append(options, gateway.WithToken(token))
	}
	return engine.NewHTTP(s.config.Engine.BaseURL, s.identity, options...), nil
}

// followProcess pins the status tab to a freshly started process.
func (s *Service) followProcess(_ context.Context, response *model.StartResponse) {
	if err := s.router.Select(router.TabStatus); err != nil {
		log.Printf("wfconsole: failed to switch tab: %v", err)
	}
	s.log.Append(s.translator("start.log.switch", i18n.Params{"id": response.ProcessInstanceID}))
	s.viewer.Reset(response.ProcessInstanceID)
	s.setLatest(nil)
}

func (s *Service) setLatest(status *model.ProcessStatus) {
	s.mu.Lock()
	s.latest = status
	s.mu.Unlock()
}

// SwitchPersona acts as the persona with key (or user id).
func (s *Service) SwitchPersona(ctx context.Context, key string) error {
	persona := s.config.Personas.Lookup(key)
	if persona == nil {
		return model.NewValidationError("unknown persona %q", key)
	}
	return s.SetIdentity(ctx, persona.Identity(s.translator))
}

// SetIdentity replaces the acting identity and reloads the visible queue.
// Loaded tasks of hidden queues and the displayed status stay as they are.
func (s *Service) SetIdentity(ctx context.Context, id model.Identity) error {
	s.identity.Set(id)
	s.launcher.ClearMessage()
	if role, ok := s.router.Active().QueueRole(); ok {
		return s.Queue(role).LoadQueue(ctx)
	}
	return nil
}

// SelectTab activates tab; queue tabs load their queue.
func (s *Service) SelectTab(ctx context.Context, tab router.Tab) error {
	if err := s.router.Select(tab); err != nil {
		return err
	}
	if role, ok := s.router.Active().QueueRole(); ok {
		return s.Queue(role).LoadQueue(ctx)
	}
	return nil
}

// StartProcess starts a process from form and follows it on the status tab.
func (s *Service) StartProcess(ctx context.Context, form launcher.Form) (response *model.StartResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "console.start", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"approver.id": form.ApproverID, "executor.id": form.ExecutorID})
	return s.launcher.Start(ctx, form)
}

// LoadQueue reloads the queue of role.
func (s *Service) LoadQueue(ctx context.Context, role model.Role) error {
	controller := s.Queue(role)
	if controller == nil {
		return model.NewValidationError("role %q has no task queue", role)
	}
	return controller.LoadQueue(ctx)
}

// Decide applies decision to a task loaded in the queue of role.
func (s *Service) Decide(ctx context.Context, role model.Role, taskID string, decision model.Decision) (err error) {
	ctx, span := tracing.StartSpan(ctx, "console.decide", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"task.id": taskID, "decision": string(decision)})
	controller := s.Queue(role)
	if controller == nil {
		return model.NewValidationError("role %q has no task queue", role)
	}
	return controller.DecideByID(ctx, taskID, decision)
}

// FetchStatus loads the status of processInstanceID.
func (s *Service) FetchStatus(ctx context.Context, processInstanceID string) error {
	return s.viewer.FetchStatus(ctx, processInstanceID)
}

// Queue returns the controller of role, or nil.
func (s *Service) Queue(role model.Role) *taskqueue.Controller {
	switch model.ParseRole(string(role)) {
	case model.RoleApprover:
		return s.approval
	case model.RoleExecutor:
		return s.manual
	}
	return nil
}

// Identity returns the acting identity.
func (s *Service) Identity() model.Identity { return s.identity.Get() }

// ActivePersona returns the persona of the acting identity, or nil.
func (s *Service) ActivePersona() *identity.Persona {
	return s.config.Personas.Active(s.identity.Get())
}

// Personas returns the persona catalog.
func (s *Service) Personas() identity.Personas { return s.config.Personas }

// Router returns the tab router.
func (s *Service) Router() *router.Router { return s.router }

// Viewer returns the status viewer.
func (s *Service) Viewer() *status.Viewer { return s.viewer }

// Launcher returns the process launcher.
func (s *Service) Launcher() *launcher.Launcher { return s.launcher }

// Log returns the activity log.
func (s *Service) Log() *activity.Log { return s.log }

// Events returns the activity fan-out queue, or nil.
func (s *Service) Events() messaging.Queue[model.Entry] { return s.queue }

// Progress returns the session counters.
func (s *Service) Progress() progress.Counters { return s.progress.Snapshot() }

// Translator returns the session translator.
func (s *Service) Translator() i18n.Translator { return s.translator }

// Config returns the effective configuration.
func (s *Service) Config() *Config { return s.config }

// Latest returns the last status delivered by the viewer since the last
// process start, or nil.
func (s *Service) Latest() *model.ProcessStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Close flushes traces.
func (s *Service) Close(ctx context.Context) error {
	return tracing.Shutdown(ctx)
}

// New creates a console session.
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
