package model

import (
	"strings"
	"time"
)

// Decision is a task action issued by the acting user.
type Decision string

const (
	DecisionApprove  Decision = "approve"
	DecisionReject   Decision = "reject"
	DecisionComplete Decision = "complete"
)

// ParseDecision resolves a decision name case-insensitively.
func ParseDecision(name string) (Decision, bool) {
	switch d := Decision(strings.ToLower(strings.TrimSpace(name))); d {
	case DecisionApprove, DecisionReject, DecisionComplete:
		return d, true
	}
	return "", false
}

// Task is a read-only snapshot of a queued human task.
type Task struct {
	TaskID            string                 `json:"taskId"`
	TaskName          string                 `json:"taskName"`
	ProcessInstanceID string                 `json:"processInstanceId"`
	CreatedAt         *time.Time             `json:"createdAt,omitempty"`
	Payload           map[string]interface{} `json:"payload,omitempty"`
}

// TaskSummary describes the task currently active in a process.
type TaskSummary struct {
	TaskID            string     `json:"taskId"`
	TaskName          string     `json:"taskName"`
	ProcessInstanceID string     `json:"processInstanceId"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
}

// DecisionRequest is the body of approve, reject and complete calls.
type DecisionRequest struct {
	UserID  string `json:"userId,omitempty"`
	Comment string `json:"comment,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// DecisionResponse is what the engine may return after a decision.
// Callers treat it as opaque.
type DecisionResponse struct {
	TaskID    string `json:"taskId,omitempty"`
	Status    string `json:"status,omitempty"`
	NextState State  `json:"nextState,omitempty"`
}
