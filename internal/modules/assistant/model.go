// README: Chat messages, the monthly message allowance and the fixed assistant replies.
package assistant

import "errors"

var (
	// ErrInsufficientTokens is returned when a session has used its allowance for the current month.
	ErrInsufficientTokens = errors.New("insufficient tokens")

	ErrBadRequest = errors.New("bad request")
)

// DefaultTokens is the number of messages granted per session per month.
const DefaultTokens = 100

const (
	Greeting = "Hello! I'm the Sir Parcel AI Assistant."
	Apology  = "I'm sorry, I couldn't process that request."
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Reply struct {
	Message ChatMessage `json:"message"`
	// Degraded is set when the apology was returned instead of a model answer.
	Degraded bool `json:"degraded"`
}
