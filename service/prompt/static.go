package prompt

import (
	"context"
	"sync"
)

// Answer is a scripted reply.
type Answer struct {
	Value     string
	Cancelled bool
}

// Static replays scripted answers and records the questions asked.
// When answers run out it cancels.
type Static struct {
	mu       sync.Mutex
	answers  []Answer
	Messages []string
}

var _ Provider = (*Static)(nil)

// Prompt implements Provider.
func (s *Static) Prompt(_ context.Context, message, _ string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, message)
	if len(s.answers) == 0 {
		return "", false
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer.Value, !answer.Cancelled
}

// Asked returns the number of prompts shown.
func (s *Static) Asked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Messages)
}

// NewStatic returns a provider answering with values in order.
func NewStatic(values ...string) *Static {
	ret := &Static{}
	for _, value := range values {
		ret.answers = append(ret.answers, Answer{Value: value})
	}
	return ret
}

// Cancelled returns a provider whose first prompt is cancelled.
func Cancelled() *Static {
	return &Static{answers: []Answer{{Cancelled: true}}}
}
