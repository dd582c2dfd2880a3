// Package llm talks to the model backend and reassembles its chunked
// output into a single reply string.
package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the prompt sent to the backend. Order matters:
// the system turn comes first, the user turn last.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options carries generation parameters passed through to the backend
// verbatim; backends tolerate and ignore fields they do not recognize.
type Options struct {
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// Client is a chat backend. Reply streams the response and aggregates it;
// ReplySync reads one complete body and normalizes it. Both return the
// assembled reply trimmed of surrounding whitespace; an empty string is a
// valid outcome, not an error.
type Client interface {
	Reply(ctx context.Context, model string, messages []Message, opts Options) (string, error)
	ReplySync(ctx context.Context, model string, messages []Message, opts Options) (string, error)
}
