package taskqueue

import (
	"github.com/viant/wfconsole/i18n"
	"github.com/viant/wfconsole/policy"
	"github.com/viant/wfconsole/progress"
	"github.com/viant/wfconsole/service/prompt"
)

// Option configures a Controller.
type Option func(c *Controller)

// WithPrompt sets the provider used for comments and reasons.
func WithPrompt(provider prompt.Provider) Option {
	return func(c *Controller) {
		c.prompt = provider
	}
}

// WithTranslator sets the message translator.
func WithTranslator(translator i18n.Translator) Option {
	return func(c *Controller) {
		c.t = translator
	}
}

// WithStatusRefresher sets the collaborator invoked after a successful
// decision.
func WithStatusRefresher(refresher StatusRefresher) Option {
	return func(c *Controller) {
		c.refresher = refresher
	}
}

// WithPolicy sets the decision policy; a policy in the call context wins.
func WithPolicy(p *policy.Policy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

// WithProgress sets the tracker counting decisions.
func WithProgress(tracker *progress.Progress) Option {
	return func(c *Controller) {
		c.progress = tracker
	}
}
