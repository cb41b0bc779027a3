package model

import "time"

// State is the coarse lifecycle state reported by the engine.
// The zero value means the engine did not report one.
type State string

const (
	StateApprovalPending State = "APPROVAL_PENDING"
	StateManualPending   State = "MANUAL_PENDING"
	StateCompleted       State = "COMPLETED"
	StateRejected        State = "REJECTED"
)

// StateUnknown is the label used for a missing state.
const StateUnknown = "unknown"

// Known reports whether s is one of the engine states.
func (s State) Known() bool {
	switch s {
	case StateApprovalPending, StateManualPending, StateCompleted, StateRejected:
		return true
	}
	return false
}

// Label returns the state, or "unknown" when absent.
func (s State) Label() string {
	if s == "" {
		return StateUnknown
	}
	return string(s)
}

// HistoryEntry is one activity of a process instance, in engine order.
type HistoryEntry struct {
	ActivityID   string     `json:"activityId"`
	ActivityName string     `json:"activityName,omitempty"`
	ActivityType string     `json:"activityType,omitempty"`
	Assignee     string     `json:"assignee,omitempty"`
	Result       string     `json:"result,omitempty"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	EndTime      *time.Time `json:"endTime,omitempty"`
}

// Title returns the activity name, falling back to its id.
func (h *HistoryEntry) Title() string {
	if h.ActivityName != "" {
		return h.ActivityName
	}
	return h.ActivityID
}

// ProcessStatus is a snapshot of a process instance.
type ProcessStatus struct {
	ProcessInstanceID string                 `json:"processInstanceId"`
	State             State                  `json:"state"`
	CurrentTask       *TaskSummary           `json:"currentTask,omitempty"`
	History           []*HistoryEntry        `json:"history"`
	Variables         map[string]interface{} `json:"variables"`
}

// StartRequest starts a new process instance.
type StartRequest struct {
	Initiator  string                 `json:"initiator"`
	ApproverID string                 `json:"approverId"`
	ExecutorID string                 `json:"executorId"`
	Payload    map[string]interface{} `json:"payload"`
}

// StartResponse is returned by the engine after a start.
type StartResponse struct {
	ProcessInstanceID string       `json:"processInstanceId"`
	State             State        `json:"state"`
	CurrentTask       *TaskSummary `json:"currentTask,omitempty"`
}
