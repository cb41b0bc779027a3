package taskqueue

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/wfconsole/model"
	"github.com/viant/wfconsole/policy"
	"github.com/viant/wfconsole/progress"
	"github.com/viant/wfconsole/service/activity"
	"github.com/viant/wfconsole/service/engine/enginetest"
	"github.com/viant/wfconsole/service/gateway"
	"github.com/viant/wfconsole/service/identity"
	"github.com/viant/wfconsole/service/prompt"
)

var taskT1 = &model.Task{TaskID: "T1", TaskName: "Approve request", ProcessInstanceID: "p1"}

func newIdentity(userID string, roles ...string) *identity.Store {
	return identity.NewStore(model.Identity{UserID: userID, Roles: model.NewRoles(roles...)})
}

func TestController_LoadQueue(t *testing.T) {
	type testCase struct {
		name          string
		role          model.Role
		roles         []string
		tasks         []*model.Task
		tasksErr      error
		expectCalls   int
		expectTasks   int
		expectKind    model.Kind
		expectMessage *model.Message
		expectLog     []string
	}

	tests := []testCase{
		{
			name:          "initiator denied approval queue",
			role:          model.RoleApprover,
			roles:         []string{"initiator"},
			expectKind:    model.KindPermission,
			expectMessage: model.NewMessage("The current identity does not have permission for this view. Switch persona to continue.", model.ToneError),
		},
		{
			name:          "empty role set denied",
			role:          model.RoleExecutor,
			expectKind:    model.KindPermission,
			expectMessage: model.NewMessage("The current identity does not have permission for this view. Switch persona to continue.", model.ToneError),
		},
		{
			name:        "mixed case role granted",
			role:        model.RoleApprover,
			roles:       []string{"Approver"},
			tasks:       []*model.Task{taskT1},
			expectCalls: 1,
			expectTasks: 1,
		},
		{
			name:          "empty queue notice",
			role:          model.RoleExecutor,
			roles:         []string{"executor"},
			expectCalls:   1,
			expectMessage: model.NewMessage("No tasks currently assigned", model.ToneSuccess),
		},
		{
			name:          "load failure logged",
			role:          model.RoleApprover,
			roles:         []string{"approver"},
			tasksErr:      &gateway.Error{Status: http.StatusInternalServerError, Message: "Internal Server Error"},
			expectCalls:   1,
			expectKind:    model.KindGateway,
			expectMessage: model.NewMessage("Failed to load tasks: Internal Server Error", model.ToneError),
			expectLog:     []string{"Failed to load tasks: Internal Server Error"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := &enginetest.Fake{Tasks: func(model.Role, string) ([]*model.Task, error) { return tc.tasks, tc.tasksErr }}
			log := activity.New()
			controller := New(tc.role, fake, newIdentity("user-1", tc.roles...), log)

			err := controller.LoadQueue(context.Background())
			assert.Equal(t, tc.expectKind, model.KindOf(err))
			assert.Equal(t, tc.expectCalls, fake.Count("tasks"))
			assert.Len(t, controller.Tasks(), tc.expectTasks)
			assert.Equal(t, tc.expectMessage, controller.Message())
			assert.False(t, controller.Loading())

			var messages []string
			for _, entry := range log.Entries() {
				messages = append(messages, entry.Message)
			}
			assert.Equal(t, tc.expectLog, messages)
			if tc.expectCalls > 0 {
				call := fake.Calls("tasks")[0]
				assert.Equal(t, tc.role, call.Role)
				assert.Equal(t, "user-1", call.UserID)
			}
		})
	}
}

func TestController_LoadFailureKeepsTasks(t *testing.T) {
	fail := false
	fake := &enginetest.Fake{Tasks: func(model.Role, string) ([]*model.Task, error) {
		if fail {
			return nil, &gateway.Error{Message: "connection refused"}
		}
		return []*model.Task{taskT1}, nil
	}}
	controller := New(model.RoleApprover, fake, newIdentity("approver-1", "approver"), activity.New())
	require.NoError(t, controller.LoadQueue(context.Background()))
	fail = true
	assert.Error(t, controller.LoadQueue(context.Background()))
	assert.Equal(t, []*model.Task{taskT1}, controller.Tasks())
}

type identityFunc func() model.Identity

func (f identityFunc) Get() model.Identity { return f() }

func TestController_LiteralRoleSet(t *testing.T) {
	source := identityFunc(func() model.Identity {
		return model.Identity{UserID: "approver-1", Roles: model.Roles{"Approver"}}
	})
	fake := &enginetest.Fake{Tasks: func(model.Role, string) ([]*model.Task, error) {
		return []*model.Task{taskT1}, nil
	}}
	controller := New(model.RoleApprover, fake, source, activity.New(), WithPrompt(prompt.NewStatic("ok")))

	require.NoError(t, controller.LoadQueue(context.Background()))
	assert.Equal(t, []*model.Task{taskT1}, controller.Tasks())
	require.NoError(t, controller.Decide(context.Background(), taskT1, model.DecisionApprove))
	assert.Equal(t, 1, fake.Count("decide"))
}

func TestController_DeniedLoadSupersedesInFlightLoad(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fake := &enginetest.Fake{Tasks: func(model.Role, string) ([]*model.Task, error) {
		close(started)
		<-release
		return []*model.Task{taskT1}, nil
	}}
	store := newIdentity("approver-1", "approver")
	controller := New(model.RoleApprover, fake, store, activity.New())

	done := make(chan error)
	go func() { done <- controller.LoadQueue(context.Background()) }()
	<-started
	assert.True(t, controller.Loading())

	store.Set(model.Identity{UserID: "initiator-1", Roles: model.NewRoles("initiator")})
	err := controller.LoadQueue(context.Background())
	assert.Equal(t, model.KindPermission, model.KindOf(err))
	assert.False(t, controller.Loading())

	close(release)
	require.NoError(t, <-done)

	assert.Empty(t, controller.Tasks())
	assert.False(t, controller.Loading())
	assert.Equal(t, model.ToneError, controller.Message().Tone)
	assert.Equal(t, 1, fake.Count("tasks"))
}

func TestController_StaleLoadIgnored(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fake := &enginetest.Fake{Tasks: func(_ model.Role, userID string) ([]*model.Task, error) {
		if userID == "slow" {
			close(started)
			<-release
			return []*model.Task{{TaskID: "stale"}}, nil
		}
		return []*model.Task{{TaskID: "fresh"}}, nil
	}}
	store := newIdentity("slow", "approver")
	controller := New(model.RoleApprover, fake, store, activity.New())

	done := make(chan error)
	go func() { done <- controller.LoadQueue(context.Background()) }()
	<-started
	store.Set(model.Identity{UserID: "fast", Roles: model.NewRoles("approver")})
	require.NoError(t, controller.LoadQueue(context.Background()))
	close(release)
	require.NoError(t, <-done)

	tasks := controller.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "fresh", tasks[0].TaskID)
	assert.False(t, controller.Loading())
}

func TestController_Decide(t *testing.T) {
	type testCase struct {
		name          string
		role          model.Role
		roles         []string
		decision      model.Decision
		prompt        *prompt.Static
		decideErr     error
		expectErrKind model.Kind
		expectDecide  int
		expectRequest *model.DecisionRequest
		expectReloads int
		expectRefresh []string
		expectLog     []string
		expectMessage *model.Message
	}

	tests := []testCase{
		{
			name:          "approve with comment",
			role:          model.RoleApprover,
			roles:         []string{"approver"},
			decision:      model.DecisionApprove,
			prompt:        prompt.NewStatic("ok"),
			expectDecide:  1,
			expectRequest: &model.DecisionRequest{Comment: "ok"},
			expectReloads: 1,
			expectRefresh: []string{"p1"},
			expectLog:     []string{"Task T1 approved by approver-1"},
			expectMessage: model.NewMessage("Task processed successfully", model.ToneSuccess),
		},
		{
			name:          "approve cancelled prompt sends empty comment",
			role:          model.RoleApprover,
			roles:         []string{"approver"},
			decision:      model.DecisionApprove,
			prompt:        prompt.Cancelled(),
			expectDecide:  1,
			expectRequest: &model.DecisionRequest{},
			expectReloads: 1,
			expectRefresh: []string{"p1"},
			expectLog:     []string{"Task T1 approved by approver-1"},
			expectMessage: model.NewMessage("Task processed successfully", model.ToneSuccess),
		},
		{
			name:          "reject with reason",
			role:          model.RoleApprover,
			roles:         []string{"approver"},
			decision:      model.DecisionReject,
			prompt:        prompt.NewStatic(" missing receipt "),
			expectDecide:  1,
			expectRequest: &model.DecisionRequest{Reason: "missing receipt"},
			expectReloads: 1,
			expectRefresh: []string{"p1"},
			expectLog:     []string{"Task T1 rejected by approver-1: missing receipt"},
			expectMessage: model.NewMessage("Task processed successfully", model.ToneSuccess),
		},
		{
			name:     "reject cancelled aborts",
			role:     model.RoleApprover,
			roles:    []string{"approver"},
			decision: model.DecisionReject,
			prompt:   prompt.Cancelled(),
		},
		{
			name:     "reject blank aborts",
			role:     model.RoleApprover,
			roles:    []string{"approver"},
			decision: model.DecisionReject,
			prompt:   prompt.NewStatic("   "),
		},
		{
			name:          "complete by executor",
			role:          model.RoleExecutor,
			roles:         []string{"executor"},
			decision:      model.DecisionComplete,
			prompt:        prompt.NewStatic("Manual step completed"),
			expectDecide:  1,
			expectRequest: &model.DecisionRequest{Comment: "Manual step completed"},
			expectReloads: 1,
			expectRefresh: []string{"p1"},
			expectLog:     []string{"Task T1 completed by executor-1"},
			expectMessage: model.NewMessage("Task processed successfully", model.ToneSuccess),
		},
		{
			name:          "identity lacks role",
			role:          model.RoleApprover,
			roles:         []string{"executor"},
			decision:      model.DecisionApprove,
			prompt:        prompt.NewStatic("ok"),
			expectErrKind: model.KindPermission,
			expectMessage: model.NewMessage("The current identity does not have permission for this view. Switch persona to continue.", model.ToneError),
		},
		{
			name:          "decision not allowed for queue",
			role:          model.RoleExecutor,
			roles:         []string{"executor"},
			decision:      model.DecisionApprove,
			prompt:        prompt.NewStatic("ok"),
			expectErrKind: model.KindPermission,
			expectMessage: model.NewMessage("The current identity does not have permission for this view. Switch persona to continue.", model.ToneError),
		},
		{
			name:          "engine failure",
			role:          model.RoleApprover,
			roles:         []string{"approver"},
			decision:      model.DecisionApprove,
			prompt:        prompt.NewStatic("ok"),
			decideErr:     &gateway.Error{Status: http.StatusForbidden, Message: "User approver-1 is not assigned to task T1"},
			expectErrKind: model.KindGateway,
			expectDecide:  1,
			expectRequest: &model.DecisionRequest{Comment: "ok"},
			expectLog:     []string{"Task operation failed: User approver-1 is not assigned to task T1"},
			expectMessage: model.NewMessage("Task operation failed: User approver-1 is not assigned to task T1", model.ToneError),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			userID := string(tc.role) + "-1"
			fake := &enginetest.Fake{
				Tasks:     func(model.Role, string) ([]*model.Task, error) { return []*model.Task{taskT1}, nil },
				DecideErr: tc.decideErr,
			}
			log := activity.New()
			var refreshed []string
			controller := New(tc.role, fake, newIdentity(userID, tc.roles...), log,
				WithPrompt(tc.prompt),
				WithStatusRefresher(func(_ context.Context, id string) error {
					refreshed = append(refreshed, id)
					return nil
				}))

			err := controller.Decide(context.Background(), taskT1, tc.decision)
			assert.Equal(t, tc.expectErrKind, model.KindOf(err))
			assert.Equal(t, tc.expectDecide, fake.Count("decide"))
			if tc.expectRequest != nil {
				assert.Equal(t, tc.expectRequest, fake.Calls("decide")[0].Request)
				assert.Equal(t, tc.decision, fake.Calls("decide")[0].Decision)
			}
			assert.Equal(t, tc.expectReloads, fake.Count("tasks"))
			assert.Equal(t, tc.expectRefresh, refreshed)

			var messages []string
			for _, entry := range log.Entries() {
				messages = append(messages, entry.Message)
			}
			assert.Equal(t, tc.expectLog, messages)
			assert.Equal(t, tc.expectMessage, controller.Message())
		})
	}
}

func TestController_ReloadFailureAfterDecision(t *testing.T) {
	fake := &enginetest.Fake{Tasks: func(model.Role, string) ([]*model.Task, error) {
		return nil, &gateway.Error{Message: "Bad Gateway"}
	}}
	log := activity.New()
	refreshes := 0
	controller := New(model.RoleApprover, fake, newIdentity("approver-1", "approver"), log,
		WithPrompt(prompt.NewStatic("ok")),
		WithStatusRefresher(func(context.Context, string) error { refreshes++; return nil }))

	require.NoError(t, controller.Decide(context.Background(), taskT1, model.DecisionApprove))
	assert.Equal(t, 1, fake.Count("tasks"))
	assert.Equal(t, 1, refreshes)
	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Failed to load tasks: Bad Gateway", entries[0].Message)
	assert.Equal(t, "Task T1 approved by approver-1", entries[1].Message)
	assert.Equal(t, model.ToneSuccess, controller.Message().Tone)
}

func TestController_NoRefreshWithoutProcessID(t *testing.T) {
	fake := &enginetest.Fake{}
	refreshes := 0
	controller := New(model.RoleExecutor, fake, newIdentity("executor-1", "executor"), activity.New(),
		WithPrompt(prompt.NewStatic("")),
		WithStatusRefresher(func(context.Context, string) error { refreshes++; return nil }))
	require.NoError(t, controller.Decide(context.Background(), &model.Task{TaskID: "T2"}, model.DecisionComplete))
	assert.Equal(t, 0, refreshes)
	assert.Equal(t, 1, fake.Count("tasks"))
}

func TestController_IdentitySwitch(t *testing.T) {
	store := newIdentity("approver-1", "approver")
	fake := &enginetest.Fake{Tasks: func(_ model.Role, userID string) ([]*model.Task, error) {
		return []*model.Task{{TaskID: "T-" + userID}}, nil
	}}
	controller := New(model.RoleApprover, fake, store, activity.New())
	require.NoError(t, controller.LoadQueue(context.Background()))

	store.Set(model.Identity{UserID: "executor-1", Roles: model.NewRoles("executor")})
	assert.Len(t, controller.Tasks(), 1)

	err := controller.LoadQueue(context.Background())
	assert.Equal(t, model.KindPermission, model.KindOf(err))
	assert.Empty(t, controller.Tasks())
	assert.Equal(t, 1, fake.Count("tasks"))
}

func TestController_SetRoleAndDecideByID(t *testing.T) {
	fake := &enginetest.Fake{Tasks: func(role model.Role, _ string) ([]*model.Task, error) {
		if role == model.RoleExecutor {
			return []*model.Task{{TaskID: "M1", ProcessInstanceID: "p9"}}, nil
		}
		return []*model.Task{}, nil
	}}
	controller := New(model.RoleApprover, fake, newIdentity("executor-1", "executor"), activity.New(), WithPrompt(prompt.NewStatic("")))

	assert.Equal(t, model.KindValidation, model.KindOf(controller.SetRole(context.Background(), model.RoleInitiator)))
	require.NoError(t, controller.SetRole(context.Background(), "Executor"))
	assert.Equal(t, model.RoleExecutor, controller.Role())
	require.NotNil(t, controller.Task("M1"))

	err := controller.DecideByID(context.Background(), "missing", model.DecisionComplete)
	assert.Equal(t, model.KindValidation, model.KindOf(err))
	assert.Equal(t, "Task missing is not in the executor queue", controller.Message().Text)

	require.NoError(t, controller.DecideByID(context.Background(), "M1", model.DecisionComplete))
	assert.Equal(t, "M1", fake.Calls("decide")[0].ID)
}

func TestController_Policy(t *testing.T) {
	type testCase struct {
		name          string
		policy        *policy.Policy
		ctxPolicy     *policy.Policy
		decision      model.Decision
		expectKind    model.Kind
		expectRequest *model.DecisionRequest
		expectAsked   int
	}

	tests := []testCase{
		{
			name:          "ask prompts",
			decision:      model.DecisionApprove,
			expectRequest: &model.DecisionRequest{Comment: "typed"},
			expectAsked:   1,
		},
		{
			name:          "auto uses default comment",
			policy:        &policy.Policy{Mode: policy.ModeAuto},
			decision:      model.DecisionApprove,
			expectRequest: &model.DecisionRequest{Comment: "Approved"},
		},
		{
			name:          "auto uses default reason",
			policy:        &policy.Policy{Mode: policy.ModeAuto},
			decision:      model.DecisionReject,
			expectRequest: &model.DecisionRequest{Reason: "Incomplete information"},
		},
		{
			name:       "blocked decision",
			policy:     &policy.Policy{BlockList: []model.Decision{model.DecisionReject}},
			decision:   model.DecisionReject,
			expectKind: model.KindPermission,
		},
		{
			name:          "context policy wins",
			policy:        &policy.Policy{Mode: policy.ModeDeny},
			ctxPolicy:     &policy.Policy{Mode: policy.ModeAuto},
			decision:      model.DecisionApprove,
			expectRequest: &model.DecisionRequest{Comment: "Approved"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := &enginetest.Fake{}
			ask := prompt.NewStatic("typed")
			tracker := progress.New()
			controller := New(model.RoleApprover, fake, newIdentity("approver-1", "approver"), activity.New(),
				WithPrompt(ask), WithPolicy(tc.policy), WithProgress(tracker))
			ctx := context.Background()
			if tc.ctxPolicy != nil {
				ctx = policy.WithPolicy(ctx, tc.ctxPolicy)
			}

			err := controller.Decide(ctx, taskT1, tc.decision)
			assert.Equal(t, tc.expectKind, model.KindOf(err))
			assert.Equal(t, tc.expectAsked, ask.Asked())
			if tc.expectRequest == nil {
				assert.Equal(t, 0, fake.Count("decide"))
				assert.Equal(t, "Decision reject is disabled by the console policy", controller.Message().Text)
				assert.Equal(t, 0, tracker.Snapshot().Decisions())
				return
			}
			calls := fake.Calls("decide")
			require.Len(t, calls, 1)
			assert.Equal(t, tc.expectRequest, calls[0].Request)
			assert.Equal(t, 1, tracker.Snapshot().Decisions())
		})
	}
}

func TestController_ProgressCountsFailures(t *testing.T) {
	fake := &enginetest.Fake{DecideErr: &gateway.Error{Status: http.StatusConflict, Message: "Task is not active"}}
	tracker := progress.New()
	controller := New(model.RoleExecutor, fake, newIdentity("executor-1", "executor"), activity.New(),
		WithPrompt(prompt.NewStatic("")), WithProgress(tracker))
	assert.Error(t, controller.Decide(context.Background(), taskT1, model.DecisionComplete))
	snapshot := tracker.Snapshot()
	assert.Equal(t, 1, snapshot.Failed)
	assert.Equal(t, 0, snapshot.Completed)
}
