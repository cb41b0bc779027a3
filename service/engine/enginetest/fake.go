// Package enginetest provides an in-memory engine double that records calls.
package enginetest

import (
	"context"
	"sync"

	"github.com/viant/wfconsole/model"
	"github.com/viant/wfconsole/service/engine"
)

// Call is one recorded engine invocation.
type Call struct {
	Op       string
	Role     model.Role
	UserID   string
	ID       string
	Decision model.Decision
	Request  interface{}
}

// Fake is a programmable engine.Engine.
type Fake struct {
	mu    sync.Mutex
	calls []Call

	// Tasks returns the queue for each FindTasks call; nil means empty.
	Tasks func(role model.Role, userID string) ([]*model.Task, error)
	// Status answers ProcessStatus.
	Status func(id string) (*model.ProcessStatus, error)
	// Start answers StartProcess.
	Start func(request *model.StartRequest) (*model.StartResponse, error)
	// DecideErr fails Decide when set.
	DecideErr error
	// OnDecide runs after a successful Decide.
	OnDecide func(taskID string, decision model.Decision)
}

var _ engine.Engine = (*Fake)(nil)

func (f *Fake) record(call Call) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

// StartProcess implements engine.Engine.
func (f *Fake) StartProcess(_ context.Context, request *model.StartRequest) (*model.StartResponse, error) {
	f.record(Call{Op: "start", UserID: request.Initiator, Request: request})
	if f.Start == nil {
		return &model.StartResponse{ProcessInstanceID: "p-1", State: model.StateApprovalPending}, nil
	}
	return f.Start(request)
}

// ProcessStatus implements engine.Engine.
func (f *Fake) ProcessStatus(_ context.Context, id string) (*model.ProcessStatus, error) {
	f.record(Call{Op: "status", ID: id})
	if f.Status == nil {
		return &model.ProcessStatus{ProcessInstanceID: id}, nil
	}
	return f.Status(id)
}

// FindTasks implements engine.Engine.
func (f *Fake) FindTasks(_ context.Context, role model.Role, userID string) ([]*model.Task, error) {
	f.record(Call{Op: "tasks", Role: role, UserID: userID})
	if f.Tasks == nil {
		return []*model.Task{}, nil
	}
	return f.Tasks(role, userID)
}

// Decide implements engine.Engine.
func (f *Fake) Decide(_ context.Context, taskID string, decision model.Decision, request *model.DecisionRequest) (*model.DecisionResponse, error) {
	f.record(Call{Op: "decide", ID: taskID, Decision: decision, Request: request})
	if f.DecideErr != nil {
		return nil, f.DecideErr
	}
	if f.OnDecide != nil {
		f.OnDecide(taskID, decision)
	}
	return &model.DecisionResponse{TaskID: taskID}, nil
}

// Calls returns recorded calls, optionally filtered by op.
func (f *Fake) Calls(op ...string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ret []Call
	for _, call := range f.calls {
		if len(op) == 0 || call.Op == op[0] {
			ret = append(ret, call)
		}
	}
	return ret
}

// Count returns the number of calls for op.
func (f *Fake) Count(op string) int {
	return len(f.Calls(op))
}
