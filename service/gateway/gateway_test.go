package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/wfconsole/model"
)

type staticIdentity model.Identity

func (s staticIdentity) Get() model.Identity { return model.Identity(s) }

type captured struct {
	method  string
	path    string
	userID  string
	roles   string
	hasUser bool
	hasRole bool
	auth    string
	body    string
}

func newServer(t *testing.T, status int, response string, into *captured) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		into.method = r.Method
		into.path = r.URL.RequestURI()
		into.userID = r.Header.Get(HeaderUserID)
		into.roles = r.Header.Get(HeaderUserRoles)
		_, into.hasUser = r.Header[http.CanonicalHeaderKey(HeaderUserID)]
		_, into.hasRole = r.Header[http.CanonicalHeaderKey(HeaderUserRoles)]
		into.auth = r.Header.Get("Authorization")
		into.body = string(data)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
}

func TestGateway_Call(t *testing.T) {
	type testCase struct {
		name          string
		identity      model.Identity
		status        int
		response      string
		body          interface{}
		expectErr     bool
		expectMessage string
		expectStatus  int
		expectUser    string
		expectRoles   string
		expectNoRoles bool
		expectNoUser  bool
	}

	tests := []testCase{
		{
			name:        "identity headers attached",
			identity:    model.Identity{UserID: "approver-1", Roles: model.NewRoles("approver", "Executor")},
			status:      http.StatusOK,
			response:    `{"value":"ok"}`,
			expectUser:  "approver-1",
			expectRoles: "approver,executor",
		},
		{
			name:          "empty roles header absent",
			identity:      model.Identity{UserID: "nobody"},
			status:        http.StatusOK,
			response:      `{"value":"ok"}`,
			expectUser:    "nobody",
			expectNoRoles: true,
		},
		{
			name:          "no identity headers absent",
			status:        http.StatusOK,
			response:      "",
			expectNoUser:  true,
			expectNoRoles: true,
		},
		{
			name:          "server error field used",
			identity:      model.Identity{UserID: "approver-1"},
			status:        http.StatusForbidden,
			response:      `{"error":"User approver-1 is not assigned to task T9"}`,
			expectErr:     true,
			expectStatus:  http.StatusForbidden,
			expectMessage: "User approver-1 is not assigned to task T9",
			expectUser:    "approver-1",
		},
		{
			name:          "status text fallback",
			identity:      model.Identity{UserID: "approver-1"},
			status:        http.StatusInternalServerError,
			response:      "<html>oops</html>",
			expectErr:     true,
			expectStatus:  http.StatusInternalServerError,
			expectMessage: "Internal Server Error",
			expectUser:    "approver-1",
		},
		{
			name:          "malformed success body",
			identity:      model.Identity{UserID: "approver-1"},
			status:        http.StatusOK,
			response:      `{"value":`,
			expectErr:     true,
			expectStatus:  http.StatusOK,
			expectMessage: "failed to decode response: unexpected end of JSON input",
			expectUser:    "approver-1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got captured
			server := newServer(t, tc.status, tc.response, &got)
			defer server.Close()

			gw := New(server.URL+"/", staticIdentity(tc.identity))
			var out struct {
				Value string `json:"value"`
			}
			err := gw.Call(context.Background(), http.MethodGet, "/api/tasks?role=approver", nil, &out)

			assert.Equal(t, "/api/tasks?role=approver", got.path)
			assert.Equal(t, tc.expectUser, got.userID)
			assert.Equal(t, tc.expectRoles, got.roles)
			if tc.expectNoRoles {
				assert.False(t, got.hasRole)
			}
			if tc.expectNoUser {
				assert.False(t, got.hasUser)
			}
			if !tc.expectErr {
				require.NoError(t, err)
				if tc.response != "" {
					assert.Equal(t, "ok", out.Value)
				}
				return
			}
			require.Error(t, err)
			var gwErr *Error
			require.True(t, errors.As(err, &gwErr))
			assert.Equal(t, tc.expectStatus, gwErr.Status)
			assert.Equal(t, tc.expectMessage, gwErr.Error())
			assert.Equal(t, model.KindGateway, model.KindOf(err))
		})
	}
}

func TestGateway_CallEncodesBodyAndToken(t *testing.T) {
	var got captured
	server := newServer(t, http.StatusOK, "", &got)
	defer server.Close()

	gw := New(server.URL, staticIdentity(model.Identity{UserID: "executor-1", Roles: model.NewRoles("executor")}), WithToken("secret"))
	err := gw.Call(context.Background(), http.MethodPost, "/api/tasks/T1/complete", &model.DecisionRequest{Comment: "done"}, nil)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "Bearer secret", got.auth)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(got.body), &body))
	assert.Equal(t, map[string]interface{}{"comment": "done"}, body)
}

func TestGateway_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	gw := New(server.URL, staticIdentity(model.Identity{UserID: "u"}))
	err := gw.Call(context.Background(), http.MethodGet, "/api/process/p1", nil, nil)
	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, 0, gwErr.Status)
	assert.NotEmpty(t, gwErr.Message)
}
