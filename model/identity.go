package model

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Role represents a task-queue role name. Roles are always stored
// normalized (trimmed, lower case) so comparisons never depend on case.
type Role string

// Well known roles.
const (
	RoleInitiator Role = "initiator"
	RoleApprover  Role = "approver"
	RoleExecutor  Role = "executor"
)

// ParseRole normalizes a role name.
func ParseRole(name string) Role {
	return Role(strings.ToLower(strings.TrimSpace(name)))
}

// Allows reports whether the role may issue the given decision.
func (r Role) Allows(decision Decision) bool {
	switch r {
	case RoleApprover:
		return decision == DecisionApprove || decision == DecisionReject
	case RoleExecutor:
		return decision == DecisionComplete
	}
	return false
}

// Roles is an ordered, de-duplicated set of normalized roles.
type Roles []Role

// NewRoles builds a role set from raw names, dropping blanks and duplicates.
func NewRoles(names ...string) Roles {
	ret := make(Roles, 0, len(names))
	for _, name := range names {
		role := ParseRole(name)
		if role == "" || ret.Has(role) {
			continue
		}
		ret = append(ret, role)
	}
	return ret
}

// Has reports whether the set grants role. Members are compared
// normalized, so literal sets with raw names still match.
func (r Roles) Has(role Role) bool {
	role = ParseRole(string(role))
	if role == "" {
		return false
	}
	for _, candidate := range r {
		if ParseRole(string(candidate)) == role {
			return true
		}
	}
	return false
}

// Normalize returns the set rebuilt with NewRoles; nil stays nil.
func (r Roles) Normalize() Roles {
	if r == nil {
		return nil
	}
	names := make([]string, len(r))
	for i, role := range r {
		names[i] = string(role)
	}
	return NewRoles(names...)
}

// UnmarshalJSON decodes a list of role names and normalizes it.
func (r *Roles) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	if names == nil {
		*r = nil
		return nil
	}
	*r = NewRoles(names...)
	return nil
}

// UnmarshalYAML decodes a list of role names and normalizes it.
func (r *Roles) UnmarshalYAML(node *yaml.Node) error {
	var names []string
	if err := node.Decode(&names); err != nil {
		return err
	}
	*r = NewRoles(names...)
	return nil
}

// Join returns the comma-joined role list, as sent on the wire.
func (r Roles) Join() string {
	names := make([]string, len(r))
	for i, role := range r {
		names[i] = string(role)
	}
	return strings.Join(names, ",")
}

// Identity is the acting user. It is always replaced as a whole.
type Identity struct {
	UserID      string `json:"userId" yaml:"userId"`
	Roles       Roles  `json:"roles" yaml:"roles"`
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
}

// Name returns the display name, falling back to the user id.
func (i Identity) Name() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.UserID
}

// Clone returns a deep copy of the identity.
func (i Identity) Clone() Identity {
	i.Roles = append(Roles(nil), i.Roles...)
	return i
}
