// Package criteria evaluates dao list parameters against record fields.
package criteria

import (
	"strings"

	"github.com/viant/wfconsole/service/dao"
)

// Fields exposes named string attributes of a record.
type Fields func(name string) (string, bool)

// Match reports whether every parameter matches its field. Unknown fields
// never match; string comparison is case-insensitive.
func Match(fields Fields, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		actual, ok := fields(parameter.Name)
		if !ok || !matchValue(actual, parameter.Value) {
			return false
		}
	}
	return true
}

func matchValue(actual string, expected interface{}) bool {
	switch value := expected.(type) {
	case string:
		return strings.EqualFold(actual, value)
	case []string:
		for _, candidate := range value {
			if strings.EqualFold(actual, candidate) {
				return true
			}
		}
	}
	return false
}
