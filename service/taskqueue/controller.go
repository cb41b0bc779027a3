// Package taskqueue implements the per-role task queue view and the
// approve, reject and complete decisions taken from it.
package taskqueue

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/wfconsole/i18n"
	"github.com/viant/wfconsole/model"
	"github.com/viant/wfconsole/policy"
	"github.com/viant/wfconsole/progress"
	"github.com/viant/wfconsole/service/activity"
	"github.com/viant/wfconsole/service/engine"
	"github.com/viant/wfconsole/service/identity"
	"github.com/viant/wfconsole/service/prompt"
)

// StatusRefresher refreshes the status of a process after a decision.
type StatusRefresher func(ctx context.Context, processInstanceID string) error

// Controller owns one queue. Its state is replaced only by its own
// operations.
type Controller struct {
	mu      sync.RWMutex
	role    model.Role
	tasks   []*model.Task
	loading bool
	message *model.Message
	seq     uint64

	engine    engine.Engine
	identity  identity.Source
	log       activity.Appender
	prompt    prompt.Provider
	refresher StatusRefresher
	policy    *policy.Policy
	progress  *progress.Progress
	t         i18n.Translator
}

// QueueRole reports whether role owns a task queue.
func QueueRole(role model.Role) bool {
	return role == model.RoleApprover || role == model.RoleExecutor
}

// LoadQueue refreshes the queue for the acting identity. An identity
// without the queue role gets an empty queue and a permission notice with
// no engine call.
func (c *Controller) LoadQueue(ctx context.Context) error {
	current := c.identity.Get()
	role := c.Role()
	if !current.Roles.Has(role) {
		c.mu.Lock()
		// supersede any load still in flight
		c.seq++
		c.loading = false
		c.tasks = []*model.Task{}
		c.message = model.NewMessage(c.t("tasks.permission.denied", nil), model.ToneError)
		c.mu.Unlock()
		return model.NewPermissionError(current.UserID, role)
	}

	seq := c.begin()
	tasks, err := c.engine.FindTasks(ctx, role, current.UserID)

	c.mu.Lock()
	latest := seq == c.seq
	if latest {
		c.loading = false
	}
	if err != nil {
		text := c.t("tasks.load.error", i18n.Params{"message": model.Describe(err)})
		if latest {
			c.message = model.NewMessage(text, model.ToneError)
		}
		c.mu.Unlock()
		c.log.Append(text)
		return err
	}
	if latest {
		c.tasks = append([]*model.Task{}, tasks...)
		c.message = nil
		if len(tasks) == 0 {
			c.message = model.NewMessage(c.t("tasks.empty", nil), model.ToneSuccess)
		}
	}
	c.mu.Unlock()
	return nil
}

// Decide applies decision to task on behalf of the acting identity.
// A reject without a reason is abandoned silently and returns nil.
func (c *Controller) Decide(ctx context.Context, task *model.Task, decision model.Decision) error {
	if task == nil || task.TaskID == "" {
		return model.NewValidationError("task is required")
	}
	current := c.identity.Get()
	role := c.Role()
	if !current.Roles.Has(role) || !role.Allows(decision) {
		c.setMessage(model.NewMessage(c.t("tasks.permission.denied", nil), model.ToneError))
		return model.NewPermissionError(current.UserID, role)
	}
	rules := policy.FromContext(ctx)
	if rules == nil {
		rules = c.policy
	}
	if !rules.IsAllowed(decision) {
		c.setMessage(model.NewMessage(c.t("tasks.policy.denied", i18n.Params{"decision": string(decision)}), model.ToneError))
		return &model.Error{Kind: model.KindPermission, Message: fmt.Sprintf("decision %q is disabled by policy", decision)}
	}

	request := &model.DecisionRequest{}
	params := i18n.Params{"taskId": task.TaskID, "userId": current.UserID}
	var logKey string
	switch decision {
	case model.DecisionApprove:
		request.Comment = c.ask(ctx, rules, "tasks.approve.prompt", "tasks.prompt.approvalDefault")
		logKey = "tasks.approve.log"
	case model.DecisionComplete:
		request.Comment = c.ask(ctx, rules, "tasks.complete.prompt", "tasks.prompt.completeDefault")
		logKey = "tasks.complete.log"
	case model.DecisionReject:
		reason, ok := c.promptText(ctx, rules, "tasks.reject.prompt", "tasks.prompt.rejectDefault")
		if reason = strings.TrimSpace(reason); !ok || reason == "" {
			return nil
		}
		request.Reason = reason
		params["reason"] = reason
		logKey = "tasks.reject.log"
	default:
		return model.NewValidationError("unsupported decision %q", decision)
	}

	c.setLoading(true)
	_, err := c.engine.Decide(ctx, task.TaskID, decision, request)
	c.setLoading(false)
	if err != nil {
		text := c.t("tasks.operation.error", i18n.Params{"message": model.Describe(err)})
		c.setMessage(model.NewMessage(text, model.ToneError))
		c.log.Append(text)
		c.progress.Update(progress.Delta{Failed: 1})
		return err
	}
	c.log.Append(c.t(logKey, params))
	c.progress.Update(progress.DecisionDelta(decision))

	// reload and refresh failures report themselves and leave the decision as made
	_ = c.LoadQueue(ctx)
	if c.refresher != nil && task.ProcessInstanceID != "" {
		_ = c.refresher(ctx, task.ProcessInstanceID)
	}
	c.setMessage(model.NewMessage(c.t("tasks.operation.success", nil), model.ToneSuccess))
	return nil
}

// DecideByID looks taskID up in the loaded queue and decides it.
func (c *Controller) DecideByID(ctx context.Context, taskID string, decision model.Decision) error {
	task := c.Task(taskID)
	if task == nil {
		text := c.t("tasks.notFound", i18n.Params{"taskId": taskID, "role": string(c.Role())})
		c.setMessage(model.NewMessage(text, model.ToneError))
		return model.NewValidationError("%s", text)
	}
	return c.Decide(ctx, task, decision)
}

// SetRole switches the queue role and reloads.
func (c *Controller) SetRole(ctx context.Context, role model.Role) error {
	role = model.ParseRole(string(role))
	if !QueueRole(role) {
		return model.NewValidationError("role %q has no task queue", role)
	}
	c.mu.Lock()
	c.role = role
	c.mu.Unlock()
	return c.LoadQueue(ctx)
}

// Role returns the queue role.
func (c *Controller) Role() model.Role {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.role
}

// Tasks returns the loaded tasks in engine order.
func (c *Controller) Tasks() []*model.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*model.Task{}, c.tasks...)
}

// Task returns the loaded task with taskID, or nil.
func (c *Controller) Task(taskID string) *model.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, task := range c.tasks {
		if task.TaskID == taskID {
			return task
		}
	}
	return nil
}

// Loading reports whether a call is in flight.
func (c *Controller) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Message returns the current notice, or nil.
func (c *Controller) Message() *model.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.message == nil {
		return nil
	}
	ret := *c.message
	return &ret
}

func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.loading = true
	return c.seq
}

func (c *Controller) setLoading(loading bool) {
	c.mu.Lock()
	c.loading = loading
	c.mu.Unlock()
}

func (c *Controller) setMessage(message *model.Message) {
	c.mu.Lock()
	c.message = message
	c.mu.Unlock()
}

// ask returns the operator comment; a cancelled prompt yields an empty one.
func (c *Controller) ask(ctx context.Context, rules *policy.Policy, messageKey, defaultKey string) string {
	value, ok := c.promptText(ctx, rules, messageKey, defaultKey)
	if !ok {
		return ""
	}
	return value
}

func (c *Controller) promptText(ctx context.Context, rules *policy.Policy, messageKey, defaultKey string) (string, bool) {
	if rules.Auto() {
		return c.t(defaultKey, nil), true
	}
	if c.prompt == nil {
		return "", false
	}
	return c.prompt.Prompt(ctx, c.t(messageKey, nil), c.t(defaultKey, nil))
}

// New creates a controller for role. Without a prompt provider every prompt
// counts as cancelled.
func New(role model.Role, eng engine.Engine, source identity.Source, log activity.Appender, options ...Option) *Controller {
	ret := &Controller{
		role:     model.ParseRole(string(role)),
		tasks:    []*model.Task{},
		engine:   eng,
		identity: source,
		log:      log,
		t:        i18n.Default(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}
