// Package identity keeps the acting identity of a console session and the
// catalog of personas a user can switch between.
package identity

import (
	"sync"

	"github.com/viant/wfconsole/model"
)

// Source reads the acting identity at call time.
type Source interface {
	Get() model.Identity
}

// Store holds exactly one acting identity. It is owned by a session and
// passed explicitly to the components that read it.
type Store struct {
	mu       sync.RWMutex
	identity model.Identity
}

var _ Source = (*Store)(nil)

// Get returns a copy of the acting identity.
func (s *Store) Get() model.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Clone()
}

// Set replaces the acting identity. No validation is performed; an empty
// role set is legal and grants no queue visibility. Role names are
// normalized.
func (s *Store) Set(identity model.Identity) {
	identity.Roles = identity.Roles.Normalize()
	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()
}

// NewStore creates a store seeded with initial.
func NewStore(initial model.Identity) *Store {
	ret := &Store{}
	ret.Set(initial)
	return ret
}
