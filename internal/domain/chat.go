package domain

import (
	"strings"
	"time"
)

// Chat message role constants.
const (
	ChatRoleUser = "user"
	ChatRoleBot  = "bot"
)

// ChatMessage is a single line in a chat transcript.
type ChatMessage struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Transcript is the ordered conversation history for one session.
type Transcript struct {
	Messages []ChatMessage `json:"messages"`
}

// Render formats the transcript as plain text for email dispatch, one
// "role: text" line per message.
func (t *Transcript) Render() string {
	var b strings.Builder
	for i, m := range t.Messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Text)
	}
	return b.String()
}

// IsEmpty reports whether the transcript has no messages.
func (t *Transcript) IsEmpty() bool {
	return len(t.Messages) == 0
}
