package identity

import (
	"strings"

	"github.com/viant/wfconsole/i18n"
	"github.com/viant/wfconsole/model"
)

// Persona is a predefined identity a user can act as.
type Persona struct {
	Key      string   `json:"key" yaml:"key"`
	UserID   string   `json:"userId" yaml:"userId"`
	Roles    []string `json:"roles" yaml:"roles"`
	LabelKey string   `json:"labelKey,omitempty" yaml:"labelKey,omitempty"`
}

// Identity builds the persona identity, localizing its display name.
func (p *Persona) Identity(t i18n.Translator) model.Identity {
	name := p.Key
	if p.LabelKey != "" && t != nil {
		name = t(p.LabelKey, nil)
	}
	return model.Identity{UserID: p.UserID, Roles: model.NewRoles(p.Roles...), DisplayName: name}
}

// Personas is an ordered persona catalog.
type Personas []*Persona

// DefaultPersonas returns the built-in initiator, approver and executor.
func DefaultPersonas() Personas {
	return Personas{
		{Key: "initiator", UserID: "initiator-1", Roles: []string{"initiator"}, LabelKey: "identity.initiator"},
		{Key: "approver", UserID: "approver-1", Roles: []string{"approver"}, LabelKey: "identity.approver"},
		{Key: "executor", UserID: "executor-1", Roles: []string{"executor"}, LabelKey: "identity.executor"},
	}
}

// Lookup finds a persona by key or user id, case-insensitively.
func (p Personas) Lookup(key string) *Persona {
	key = strings.TrimSpace(key)
	for _, candidate := range p {
		if strings.EqualFold(candidate.Key, key) || strings.EqualFold(candidate.UserID, key) {
			return candidate
		}
	}
	return nil
}

// Active returns the persona matching identity, if any.
func (p Personas) Active(identity model.Identity) *Persona {
	for _, candidate := range p {
		if candidate.UserID == identity.UserID {
			return candidate
		}
	}
	return nil
}
