package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	type testCase struct {
		name      string
		input     string
		expected  *Command
		expectErr bool
	}

	tests := []testCase{
		{name: "blank", input: "   "},
		{name: "verb only", input: "whoami", expected: &Command{Name: "whoami"}},
		{name: "verb case folded", input: "  Tasks  ", expected: &Command{Name: "tasks"}},
		{name: "single argument", input: "persona approver", expected: &Command{Name: "persona", Args: []string{"approver"}}},
		{
			name:     "json rest of line",
			input:    `start approver-1 executor-1 {"amount": 1000, "title": "Sample request"}  `,
			expected: &Command{Name: "start", Args: []string{"approver-1", "executor-1", `{"amount": 1000, "title": "Sample request"}`}},
		},
		{
			name:     "quoted argument",
			input:    `reject T1 "missing \"receipt\""`,
			expected: &Command{Name: "reject", Args: []string{"T1", `missing "receipt"`}},
		},
		{name: "tabs between args", input: "status\tp-1", expected: &Command{Name: "status", Args: []string{"p-1"}}},
		{name: "malformed json kept for launcher", input: "start a e {amount:", expected: &Command{Name: "start", Args: []string{"a", "e", "{amount:"}}},
		{name: "verb must start with letter", input: "1tasks", expectErr: true},
		{name: "unterminated quote", input: `reject T1 "missing`, expected: &Command{Name: "reject", Args: []string{"T1", `"missing`}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := Parse([]byte(tc.input))
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestCommand_Arg(t *testing.T) {
	cmd := &Command{Name: "status", Args: []string{"p1"}}
	assert.Equal(t, "p1", cmd.Arg(0))
	assert.Equal(t, "", cmd.Arg(1))
}
