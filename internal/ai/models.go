package ai

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyReply is returned when the model answers without any text.
var ErrEmptyReply = errors.New("model returned no text")

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is sent as-is; the last message is the one being answered.
type Conversation struct {
	Messages []Message
}

// Last returns the message being answered.
func (c Conversation) Last() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// Acknowledgement is the model turn that follows the persona context.
const Acknowledgement = "Understood. I am Sir Parcel AI, ready to help."

// NewConversation primes the model with the assistant persona and the public
// package data, then asks prompt.
func NewConversation(packages any, prompt string) (Conversation, error) {
	data, err := json.MarshalIndent(packages, "", "  ")
	if err != nil {
		return Conversation{}, fmt.Errorf("encode package data: %w", err)
	}
	return Conversation{Messages: []Message{
		{Role: RoleUser, Content: buildSystemPrompt(string(data))},
		{Role: RoleModel, Content: Acknowledgement},
		{Role: RoleUser, Content: prompt},
	}}, nil
}

func buildSystemPrompt(packagesJSON string) string {
	return fmt.Sprintf(`You are "Sir Parcel AI", a friendly and helpful AI assistant for a courier company called "Sir Parcel".
You have access to the following public package tracking data in JSON format:
%s
`, packagesJSON)
}
