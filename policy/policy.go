package policy

import (
	"context"
	"strings"

	"github.com/viant/wfconsole/model"
)

// Confirmation modes.
const (
	ModeAsk  = "ask"  // prompt for a comment or reason
	ModeAuto = "auto" // use the default text without prompting
	ModeDeny = "deny" // refuse every decision
)

// Policy governs decisions taken from a task queue. A nil *Policy asks
// before every decision and allows all of them.
type Policy struct {
	Mode      string
	AllowList []model.Decision
	BlockList []model.Decision
}

// Config is the serialisable form of a Policy.
type Config struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// Validate checks the mode and decision names.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch strings.ToLower(c.Mode) {
	case "", ModeAsk, ModeAuto, ModeDeny:
	default:
		return model.NewValidationError("unsupported decision mode %q", c.Mode)
	}
	for _, name := range append(append([]string{}, c.AllowList...), c.BlockList...) {
		if _, ok := model.ParseDecision(name); !ok {
			return model.NewValidationError("unknown decision %q", name)
		}
	}
	return nil
}

// FromConfig builds a Policy; unknown decision names are skipped.
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      strings.ToLower(c.Mode),
		AllowList: decisions(c.AllowList),
		BlockList: decisions(c.BlockList),
	}
}

func decisions(names []string) []model.Decision {
	var ret []model.Decision
	for _, name := range names {
		if decision, ok := model.ParseDecision(name); ok {
			ret = append(ret, decision)
		}
	}
	return ret
}

// IsAllowed reports whether decision may be taken. The block list wins
// over the allow list; an empty allow list allows everything.
func (p *Policy) IsAllowed(decision model.Decision) bool {
	if p == nil {
		return true
	}
	if p.Mode == ModeDeny {
		return false
	}
	for _, blocked := range p.BlockList {
		if blocked == decision {
			return false
		}
	}
	if len(p.AllowList) == 0 {
		return true
	}
	for _, allowed := range p.AllowList {
		if allowed == decision {
			return true
		}
	}
	return false
}

// Auto reports whether decisions use default texts without prompting.
func (p *Policy) Auto() bool {
	return p != nil && p.Mode == ModeAuto
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds p in ctx, overriding the controller policy for calls
// made with the returned context.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext returns the policy embedded in ctx, or nil.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
