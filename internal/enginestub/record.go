package enginestub

import (
	"time"

	"github.com/viant/wfconsole/model"
)

// Task definition keys.
const (
	ApprovalTask = "approvalTask"
	ManualTask   = "manualTask"
)

// Process variable names.
const (
	VarInitiator      = "initiator"
	VarApproverID     = "approverId"
	VarExecutorID     = "executorId"
	VarProcessStatus  = "processStatus"
	VarApprovalResult = "approvalResult"
	VarLastComment    = "lastComment"
	VarLastOperator   = "lastOperator"
	VarPayload        = "payload"
)

type processRecord struct {
	ID        string
	State     model.State
	Variables map[string]interface{}
	History   []*model.HistoryEntry
	TaskID    string
}

type taskRecord struct {
	ID            string
	Name          string
	DefinitionKey string
	ProcessID     string
	Assignee      string
	CreatedAt     time.Time
	Active        bool
}

func (t *taskRecord) field(name string) (string, bool) {
	switch name {
	case "Assignee":
		return t.Assignee, true
	case "DefinitionKey":
		return t.DefinitionKey, true
	case "ProcessID":
		return t.ProcessID, true
	case "Active":
		if t.Active {
			return "true", true
		}
		return "false", true
	}
	return "", false
}

func (t *taskRecord) summary() *model.TaskSummary {
	createdAt := t.CreatedAt
	return &model.TaskSummary{TaskID: t.ID, TaskName: t.Name, ProcessInstanceID: t.ProcessID, CreatedAt: &createdAt}
}

func (p *processRecord) status(current *taskRecord) *model.ProcessStatus {
	ret := &model.ProcessStatus{
		ProcessInstanceID: p.ID,
		State:             p.State,
		History:           make([]*model.HistoryEntry, len(p.History)),
		Variables:         make(map[string]interface{}, len(p.Variables)),
	}
	for i, entry := range p.History {
		clone := *entry
		ret.History[i] = &clone
	}
	for k, v := range p.Variables {
		ret.Variables[k] = v
	}
	if current != nil {
		ret.CurrentTask = current.summary()
	}
	return ret
}

// activeEntry returns the open history entry of activityID.
func (p *processRecord) activeEntry(activityID string) *model.HistoryEntry {
	for i := len(p.History) - 1; i >= 0; i-- {
		if entry := p.History[i]; entry.ActivityID == activityID && entry.EndTime == nil {
			return entry
		}
	}
	return nil
}
