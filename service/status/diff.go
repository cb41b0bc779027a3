package status

import (
	"encoding/json"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff is a unified diff of process variables between two fetches.
type Diff struct {
	Text    string
	Added   int
	Removed int
}

// Empty reports whether nothing changed.
func (d *Diff) Empty() bool {
	return d == nil || d.Text == ""
}

// DiffVariables compares two variable maps rendered as indented JSON.
func DiffVariables(processID string, previous, current map[string]interface{}) (*Diff, error) {
	before, err := renderVariables(previous)
	if err != nil {
		return nil, err
	}
	after, err := renderVariables(current)
	if err != nil {
		return nil, err
	}
	if before == after {
		return &Diff{}, nil
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: processID + " (previous)",
		ToFile:   processID + " (current)",
		Context:  2,
	})
	if err != nil {
		return nil, err
	}
	ret := &Diff{Text: text}
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			ret.Added++
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			ret.Removed++
		}
	}
	return ret, nil
}

func renderVariables(variables map[string]interface{}) (string, error) {
	if variables == nil {
		variables = map[string]interface{}{}
	}
	data, err := json.MarshalIndent(variables, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
