package model

// Tone drives how a message is presented.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
	ToneNeutral Tone = "neutral"
)

// Message is a short-lived notice shown by a component.
type Message struct {
	Text string `json:"text"`
	Tone Tone   `json:"tone"`
}

// NewMessage creates a message.
func NewMessage(text string, tone Tone) *Message {
	return &Message{Text: text, Tone: tone}
}

// Entry is one activity log line.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}
