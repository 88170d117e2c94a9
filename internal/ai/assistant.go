package ai

import (
	"context"
	"errors"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry of a conversation sent to the model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Reply is the validated assistant answer for one turn.
type Reply struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
	Raw         string   `json:"-"`
}

var (
	// ErrAPI wraps transport and provider failures of a completion call.
	ErrAPI = errors.New("ai api call failed")
	// ErrMalformedResponse is returned when the model answer does not follow the reply schema.
	ErrMalformedResponse = errors.New("ai response is malformed")
)

// Assistant produces the next reply for a conversation. The last message in
// history is normally the user prompt; when it is not, the assistant greets.
type Assistant interface {
	Reply(ctx context.Context, history []Message) (*Reply, error)
}

// Text returns only the content of messages with the given role.
func Text(history []Message, role Role) []string {
	out := make([]string, 0, len(history))
	for _, m := range history {
		if m.Role == role {
			out = append(out, m.Content)
		}
	}
	return out
}
