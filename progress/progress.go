package progress

import (
	"sync"
	"time"

	"github.com/viant/wfconsole/model"
)

// Delta is an incremental counter change.
type Delta struct {
	Started   int
	Approved  int
	Rejected  int
	Completed int
	Failed    int
}

// DecisionDelta returns the delta of one successful decision.
func DecisionDelta(decision model.Decision) Delta {
	switch decision {
	case model.DecisionApprove:
		return Delta{Approved: 1}
	case model.DecisionReject:
		return Delta{Rejected: 1}
	case model.DecisionComplete:
		return Delta{Completed: 1}
	}
	return Delta{}
}

// Counters is a point-in-time copy of the session counters.
type Counters struct {
	StartedAt time.Time

	Started   int
	Approved  int
	Rejected  int
	Completed int
	Failed    int
}

// Decisions returns the number of successful decisions.
func (c Counters) Decisions() int {
	return c.Approved + c.Rejected + c.Completed
}

// Progress holds session counters. It is safe for concurrent use; a nil
// *Progress ignores updates.
type Progress struct {
	mu       sync.Mutex
	counters Counters
	onChange func(Counters)
}

// Update applies d. The change callback receives a copy outside the lock.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.counters.Started += d.Started
	p.counters.Approved += d.Approved
	p.counters.Rejected += d.Rejected
	p.counters.Completed += d.Completed
	p.counters.Failed += d.Failed
	snapshot := p.counters
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the counters.
func (p *Progress) Snapshot() Counters {
	if p == nil {
		return Counters{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counters
}

// OnChange registers the callback run after every update, replacing any
// previous one.
func (p *Progress) OnChange(cb func(Counters)) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onChange = cb
	p.mu.Unlock()
}

// New creates a tracker started now.
func New() *Progress {
	return &Progress{counters: Counters{StartedAt: time.Now()}}
}
