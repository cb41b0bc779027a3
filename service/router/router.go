// Package router tracks which console view is active.
package router

import (
	"strings"
	"sync"

	"github.com/viant/wfconsole/model"
)

// Tab is a console view.
type Tab string

const (
	TabStart    Tab = "start"
	TabApproval Tab = "approval"
	TabManual   Tab = "manual"
	TabStatus   Tab = "status"
)

// Tabs lists the views in display order.
var Tabs = []Tab{TabStart, TabApproval, TabManual, TabStatus}

// LabelKey returns the translation key of the tab title.
func (t Tab) LabelKey() string { return "tabs." + string(t) }

// QueueRole returns the role whose queue the tab shows, if any.
func (t Tab) QueueRole() (model.Role, bool) {
	switch t {
	case TabApproval:
		return model.RoleApprover, true
	case TabManual:
		return model.RoleExecutor, true
	}
	return "", false
}

// ParseTab resolves a tab name case-insensitively.
func ParseTab(name string) (Tab, error) {
	tab := Tab(strings.ToLower(strings.TrimSpace(name)))
	for _, candidate := range Tabs {
		if candidate == tab {
			return tab, nil
		}
	}
	return "", model.NewValidationError("unknown tab %q", name)
}

// Router holds the active tab, initially TabStart.
type Router struct {
	mu     sync.RWMutex
	active Tab
}

// Select activates tab.
func (r *Router) Select(tab Tab) error {
	parsed, err := ParseTab(string(tab))
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.active = parsed
	r.mu.Unlock()
	return nil
}

// Active returns the active tab.
func (r *Router) Active() Tab {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// New creates a router on the start tab.
func New() *Router {
	return &Router{active: TabStart}
}
