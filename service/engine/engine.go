// Package engine exposes the workflow engine operations the console uses.
package engine

import (
	"context"

	"github.com/viant/wfconsole/model"
)

// Route templates of the engine HTTP contract.
const (
	PathStart    = "/api/process/start"
	PathProcess  = "/api/process/"
	PathTasks    = "/api/tasks"
	PathTaskBase = "/api/tasks/"
)

// Engine is the remote workflow engine as seen by console components.
type Engine interface {
	StartProcess(ctx context.Context, request *model.StartRequest) (*model.StartResponse, error)

	ProcessStatus(ctx context.Context, processInstanceID string) (*model.ProcessStatus, error)

	FindTasks(ctx context.Context, role model.Role, userID string) ([]*model.Task, error)

	// Decide posts approve, reject or complete for taskID.
	Decide(ctx context.Context, taskID string, decision model.Decision, request *model.DecisionRequest) (*model.DecisionResponse, error)
}
