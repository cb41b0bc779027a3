// Package enginestub is an in-memory HTTP double of the workflow engine
// contract, used by tests and demos.
package enginestub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/viant/wfconsole/internal/clock"
	"github.com/viant/wfconsole/internal/idgen"
	"github.com/viant/wfconsole/model"
	"github.com/viant/wfconsole/service/dao"
	"github.com/viant/wfconsole/service/dao/criteria"
	"github.com/viant/wfconsole/service/dao/store"
)

// Error is a failure with an HTTP status.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(status int, format string, args ...interface{}) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Engine runs the approve then execute lifecycle.
type Engine struct {
	mu        sync.Mutex
	processes dao.Service[string, processRecord]
	tasks     dao.Service[string, taskRecord]
}

// NewEngine creates an empty engine.
func NewEngine() *Engine {
	return &Engine{
		processes: store.NewMemoryStore[string, processRecord](func(p *processRecord) string { return p.ID }),
		tasks: store.NewMemoryStore[string, taskRecord](func(t *taskRecord) string { return t.ID },
			store.WithMatcher[string, taskRecord](func(t *taskRecord, parameters []*dao.Parameter) bool {
				return criteria.Match(t.field, parameters)
			})),
	}
}

// Start creates a process waiting for approval.
func (e *Engine) Start(ctx context.Context, request *model.StartRequest) (*model.StartResponse, error) {
	initiator := strings.TrimSpace(request.Initiator)
	if initiator == "" {
		return nil, newError(http.StatusUnauthorized, "Missing user identity. Provide X-User-Id header or include userId in the payload.")
	}
	approverID, err := participant(request.ApproverID, VarApproverID)
	if err != nil {
		return nil, err
	}
	executorID, err := participant(request.ExecutorID, VarExecutorID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	now := clock.Now().UTC()
	process := &processRecord{
		ID:    idgen.New(),
		State: model.StateApprovalPending,
		Variables: map[string]interface{}{
			VarInitiator:      initiator,
			VarApproverID:     approverID,
			VarExecutorID:     executorID,
			VarProcessStatus:  string(model.StateApprovalPending),
			VarApprovalResult: nil,
			VarLastComment:    nil,
			VarLastOperator:   initiator,
		},
	}
	if len(request.Payload) > 0 {
		process.Variables[VarPayload] = request.Payload
	}
	process.History = append(process.History, &model.HistoryEntry{
		ActivityID: "startEvent", ActivityName: "Start", ActivityType: "startEvent", StartTime: &now, EndTime: &now,
	})
	task := e.openTask(process, ApprovalTask, "Approve request", approverID, now)
	if err := e.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	if err := e.processes.Save(ctx, process); err != nil {
		return nil, err
	}
	return &model.StartResponse{ProcessInstanceID: process.ID, State: process.State, CurrentTask: task.summary()}, nil
}

// Status returns a snapshot of processID.
func (e *Engine) Status(ctx context.Context, processID string) (*model.ProcessStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	process, err := e.loadProcess(ctx, processID)
	if err != nil {
		return nil, err
	}
	var current *taskRecord
	if process.TaskID != "" {
		current, _ = e.tasks.Load(ctx, process.TaskID)
	}
	return process.status(current), nil
}

// FindTasks lists active tasks assigned to userID for role, newest first.
func (e *Engine) FindTasks(ctx context.Context, role model.Role, userID string) ([]*model.Task, error) {
	if userID == "" {
		return nil, newError(http.StatusUnauthorized, "Missing user identity. Provide X-User-Id header or include userId in the payload.")
	}
	parameters := []*dao.Parameter{dao.NewParameter("Assignee", userID), dao.NewParameter("Active", "true")}
	switch role {
	case model.RoleApprover:
		parameters = append(parameters, dao.NewParameter("DefinitionKey", ApprovalTask))
	case model.RoleExecutor:
		parameters = append(parameters, dao.NewParameter("DefinitionKey", ManualTask))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	records, err := e.tasks.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Task, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		record := records[i]
		createdAt := record.CreatedAt
		task := &model.Task{TaskID: record.ID, TaskName: record.Name, ProcessInstanceID: record.ProcessID, CreatedAt: &createdAt, Payload: map[string]interface{}{}}
		if process, err := e.processes.Load(ctx, record.ProcessID); err == nil {
			if payload, ok := process.Variables[VarPayload].(map[string]interface{}); ok {
				task.Payload = payload
			}
		}
		ret = append(ret, task)
	}
	return ret, nil
}

// Decide applies decision to taskID on behalf of userID.
func (e *Engine) Decide(ctx context.Context, taskID string, decision model.Decision, userID string, request *model.DecisionRequest) (*model.DecisionResponse, error) {
	if userID == "" {
		return nil, newError(http.StatusUnauthorized, "User identity is required to operate on the task")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	task, err := e.tasks.Load(ctx, taskID)
	if err != nil || !task.Active {
		return nil, newError(http.StatusNotFound, "Task not found: %s", taskID)
	}
	if task.Assignee != userID {
		return nil, newError(http.StatusForbidden, "User %s is not assigned to task %s", userID, taskID)
	}
	expected := ApprovalTask
	if decision == model.DecisionComplete {
		expected = ManualTask
	}
	if task.DefinitionKey != expected {
		return nil, newError(http.StatusConflict, "Task %s does not accept %s", taskID, decision)
	}
	process, err := e.loadProcess(ctx, task.ProcessID)
	if err != nil {
		return nil, err
	}

	now := clock.Now().UTC()
	comment := request.Comment
	var result string
	switch decision {
	case model.DecisionApprove:
		result, process.State = "APPROVED", model.StateManualPending
		process.Variables[VarApprovalResult] = result
	case model.DecisionReject:
		result, process.State = "REJECTED", model.StateRejected
		process.Variables[VarApprovalResult] = result
		if request.Reason != "" {
			comment = request.Reason
		}
	case model.DecisionComplete:
		result, process.State = string(model.StateCompleted), model.StateCompleted
	default:
		return nil, newError(http.StatusBadRequest, "unsupported decision %q", decision)
	}
	process.Variables[VarProcessStatus] = string(process.State)
	process.Variables[VarLastComment] = comment
	process.Variables[VarLastOperator] = userID

	task.Active = false
	if entry := process.activeEntry(task.DefinitionKey); entry != nil {
		entry.EndTime = &now
		entry.Result = result
	}
	process.TaskID = ""
	if process.State == model.StateManualPending {
		executorID, _ := process.Variables[VarExecutorID].(string)
		if err := e.tasks.Save(ctx, e.openTask(process, ManualTask, "Execute manual step", executorID, now)); err != nil {
			return nil, err
		}
	} else {
		process.History = append(process.History, &model.HistoryEntry{
			ActivityID: "endEvent", ActivityName: "End", ActivityType: "endEvent", StartTime: &now, EndTime: &now,
		})
	}
	if err := e.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	if err := e.processes.Save(ctx, process); err != nil {
		return nil, err
	}
	return &model.DecisionResponse{TaskID: taskID, Status: result, NextState: process.State}, nil
}

func (e *Engine) openTask(process *processRecord, key, name, assignee string, now time.Time) *taskRecord {
	task := &taskRecord{ID: idgen.New(), Name: name, DefinitionKey: key, ProcessID: process.ID, Assignee: assignee, CreatedAt: now, Active: true}
	process.TaskID = task.ID
	process.History = append(process.History, &model.HistoryEntry{
		ActivityID: key, ActivityName: name, ActivityType: "userTask", Assignee: assignee, StartTime: &now,
	})
	return task
}

func (e *Engine) loadProcess(ctx context.Context, processID string) (*processRecord, error) {
	process, err := e.processes.Load(ctx, processID)
	if errors.Is(err, dao.ErrNotFound) {
		return nil, newError(http.StatusNotFound, "Process %s not found", processID)
	}
	return process, err
}

func participant(value, field string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", newError(http.StatusBadRequest, "Field '%s' cannot be blank", field)
	}
	return value, nil
}
