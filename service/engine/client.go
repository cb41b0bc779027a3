package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/viant/wfconsole/model"
	"github.com/viant/wfconsole/service/gateway"
)

// Caller is the request function the client is built on.
type Caller interface {
	Call(ctx context.Context, method, path string, body, out interface{}) error
}

// commentBody is sent by approve and complete; the comment key is always
// present, blank when the operator gave none.
type commentBody struct {
	UserID  string `json:"userId,omitempty"`
	Comment string `json:"comment"`
}

// reasonBody is sent by reject.
type reasonBody struct {
	UserID string `json:"userId,omitempty"`
	Reason string `json:"reason"`
}

// Client implements Engine over the gateway.
type Client struct {
	caller Caller
}

var _ Engine = (*Client)(nil)

// StartProcess starts a new process instance.
func (c *Client) StartProcess(ctx context.Context, request *model.StartRequest) (*model.StartResponse, error) {
	ret := &model.StartResponse{}
	if err := c.caller.Call(ctx, http.MethodPost, PathStart, request, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// ProcessStatus returns a status snapshot of processInstanceID.
func (c *Client) ProcessStatus(ctx context.Context, processInstanceID string) (*model.ProcessStatus, error) {
	ret := &model.ProcessStatus{}
	if err := c.caller.Call(ctx, http.MethodGet, PathProcess+url.PathEscape(processInstanceID), nil, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// FindTasks lists the tasks assigned to userID for role.
func (c *Client) FindTasks(ctx context.Context, role model.Role, userID string) ([]*model.Task, error) {
	query := url.Values{}
	query.Set("role", string(role))
	query.Set("userId", userID)
	var ret []*model.Task
	if err := c.caller.Call(ctx, http.MethodGet, PathTasks+"?"+query.Encode(), nil, &ret); err != nil {
		return nil, err
	}
	if ret == nil {
		ret = []*model.Task{}
	}
	return ret, nil
}

// Decide posts decision for taskID. Reject sends the reason, the other
// decisions send the comment.
func (c *Client) Decide(ctx context.Context, taskID string, decision model.Decision, request *model.DecisionRequest) (*model.DecisionResponse, error) {
	if _, ok := model.ParseDecision(string(decision)); !ok {
		return nil, model.NewValidationError("unsupported decision %q", decision)
	}
	var body interface{}
	if request == nil {
		request = &model.DecisionRequest{}
	}
	if decision == model.DecisionReject {
		body = &reasonBody{UserID: request.UserID, Reason: request.Reason}
	} else {
		body = &commentBody{UserID: request.UserID, Comment: request.Comment}
	}
	ret := &model.DecisionResponse{}
	path := fmt.Sprintf("%s%s/%s", PathTaskBase, url.PathEscape(taskID), decision)
	if err := c.caller.Call(ctx, http.MethodPost, path, body, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// ApproveTask approves taskID with an optional comment.
func (c *Client) ApproveTask(ctx context.Context, taskID, comment string) (*model.DecisionResponse, error) {
	return c.Decide(ctx, taskID, model.DecisionApprove, &model.DecisionRequest{Comment: comment})
}

// RejectTask rejects taskID with reason.
func (c *Client) RejectTask(ctx context.Context, taskID, reason string) (*model.DecisionResponse, error) {
	return c.Decide(ctx, taskID, model.DecisionReject, &model.DecisionRequest{Reason: reason})
}

// CompleteTask completes taskID with an optional comment.
func (c *Client) CompleteTask(ctx context.Context, taskID, comment string) (*model.DecisionResponse, error) {
	return c.Decide(ctx, taskID, model.DecisionComplete, &model.DecisionRequest{Comment: comment})
}

// New creates a client on top of caller.
func New(caller Caller) *Client {
	return &Client{caller: caller}
}

// NewHTTP creates a client calling baseURL with identity headers from source.
func NewHTTP(baseURL string, source gateway.IdentitySource, options ...gateway.Option) *Client {
	return New(gateway.New(baseURL, source, options...))
}
