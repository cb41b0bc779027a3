// Package idgen wraps the UUID generator so that it can be stubbed in tests.
// Identifiers are opaque strings; callers must not parse them.
package idgen

import "github.com/google/uuid"

// NewFunc returns a new globally unique identifier.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier.
func New() string { return NewFunc() }

// Prefixed returns prefix-<short id>, used for human readable ids.
func Prefixed(prefix string) string {
	id := New()
	if len(id) > 8 {
		id = id[:8]
	}
	return prefix + "-" + id
}
