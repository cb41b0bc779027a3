package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/wfconsole/model"
)

func TestRouter_Select(t *testing.T) {
	type testCase struct {
		name        string
		selections  []Tab
		expectTab   Tab
		expectError bool
	}

	tests := []testCase{
		{name: "initial", expectTab: TabStart},
		{name: "approval", selections: []Tab{TabApproval}, expectTab: TabApproval},
		{name: "case insensitive", selections: []Tab{"Status"}, expectTab: TabStatus},
		{name: "unknown keeps active", selections: []Tab{TabManual, "history"}, expectTab: TabManual, expectError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := New()
			var err error
			for _, tab := range tc.selections {
				err = router.Select(tab)
			}
			assert.Equal(t, tc.expectTab, router.Active())
			if tc.expectError {
				assert.Equal(t, model.KindValidation, model.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTab_QueueRole(t *testing.T) {
	role, ok := TabApproval.QueueRole()
	assert.True(t, ok)
	assert.Equal(t, model.RoleApprover, role)

	role, ok = TabManual.QueueRole()
	assert.True(t, ok)
	assert.Equal(t, model.RoleExecutor, role)

	_, ok = TabStatus.QueueRole()
	assert.False(t, ok)
	assert.Equal(t, "tabs.manual", TabManual.LabelKey())
}
