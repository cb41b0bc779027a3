package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/wfconsole/model"
	"github.com/viant/wfconsole/service/gateway"
)

type recordedCall struct {
	method string
	path   string
	body   string
}

type fakeCaller struct {
	calls    []recordedCall
	response string
	err      error
}

func (f *fakeCaller) Call(_ context.Context, method, path string, body, out interface{}) error {
	call := recordedCall{method: method, path: path}
	if body != nil {
		data, _ := json.Marshal(body)
		call.body = string(data)
	}
	f.calls = append(f.calls, call)
	if f.err != nil {
		return f.err
	}
	if out != nil && f.response != "" {
		return json.Unmarshal([]byte(f.response), out)
	}
	return nil
}

func TestClient_Routes(t *testing.T) {
	type testCase struct {
		name         string
		invoke       func(c *Client) error
		expectMethod string
		expectPath   string
		expectBody   string
	}

	tests := []testCase{
		{
			name: "start",
			invoke: func(c *Client) error {
				_, err := c.StartProcess(context.Background(), &model.StartRequest{Initiator: "initiator-1", ApproverID: "a", ExecutorID: "e", Payload: map[string]interface{}{}})
				return err
			},
			expectMethod: http.MethodPost,
			expectPath:   "/api/process/start",
			expectBody:   `{"initiator":"initiator-1","approverId":"a","executorId":"e","payload":{}}`,
		},
		{
			name: "status escapes id",
			invoke: func(c *Client) error {
				_, err := c.ProcessStatus(context.Background(), "p 1/x")
				return err
			},
			expectMethod: http.MethodGet,
			expectPath:   "/api/process/p%201%2Fx",
		},
		{
			name: "find tasks query",
			invoke: func(c *Client) error {
				_, err := c.FindTasks(context.Background(), model.RoleApprover, "approver-1")
				return err
			},
			expectMethod: http.MethodGet,
			expectPath:   "/api/tasks?role=approver&userId=approver-1",
		},
		{
			name: "approve sends comment",
			invoke: func(c *Client) error {
				_, err := c.ApproveTask(context.Background(), "T1", "ok")
				return err
			},
			expectMethod: http.MethodPost,
			expectPath:   "/api/tasks/T1/approve",
			expectBody:   `{"comment":"ok"}`,
		},
		{
			name: "reject sends reason only",
			invoke: func(c *Client) error {
				_, err := c.Decide(context.Background(), "T1", model.DecisionReject, &model.DecisionRequest{Comment: "ignored", Reason: "missing receipt"})
				return err
			},
			expectMethod: http.MethodPost,
			expectPath:   "/api/tasks/T1/reject",
			expectBody:   `{"reason":"missing receipt"}`,
		},
		{
			name: "complete with empty comment",
			invoke: func(c *Client) error {
				_, err := c.CompleteTask(context.Background(), "T2", "")
				return err
			},
			expectMethod: http.MethodPost,
			expectPath:   "/api/tasks/T2/complete",
			expectBody:   `{"comment":""}`,
		},
		{
			name: "approve without request keeps comment key",
			invoke: func(c *Client) error {
				_, err := c.Decide(context.Background(), "T3", model.DecisionApprove, nil)
				return err
			},
			expectMethod: http.MethodPost,
			expectPath:   "/api/tasks/T3/approve",
			expectBody:   `{"comment":""}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			caller := &fakeCaller{}
			require.NoError(t, tc.invoke(New(caller)))
			require.Len(t, caller.calls, 1)
			assert.Equal(t, tc.expectMethod, caller.calls[0].method)
			assert.Equal(t, tc.expectPath, caller.calls[0].path)
			if tc.expectBody != "" {
				assert.JSONEq(t, tc.expectBody, caller.calls[0].body)
			}
		})
	}
}

func TestClient_Decode(t *testing.T) {
	caller := &fakeCaller{response: `{"processInstanceId":"p1","state":null,"history":[{"activityId":"a1","assignee":"approver-1"}],"variables":{"amount":1000}}`}
	status, err := New(caller).ProcessStatus(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", status.ProcessInstanceID)
	assert.Equal(t, "unknown", status.State.Label())
	require.Len(t, status.History, 1)
	assert.Equal(t, "a1", status.History[0].Title())
	assert.EqualValues(t, 1000, status.Variables["amount"])

	caller = &fakeCaller{}
	tasks, err := New(caller).FindTasks(context.Background(), model.RoleExecutor, "executor-1")
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestClient_Errors(t *testing.T) {
	failure := &gateway.Error{Status: http.StatusForbidden, Message: "not assigned"}
	caller := &fakeCaller{err: failure}
	_, err := New(caller).ApproveTask(context.Background(), "T1", "")
	var gwErr *gateway.Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "not assigned", gwErr.Error())

	caller = &fakeCaller{}
	_, err = New(caller).Decide(context.Background(), "T1", model.Decision("escalate"), nil)
	assert.Equal(t, model.KindValidation, model.KindOf(err))
	assert.Empty(t, caller.calls)
}
