package ai

import (
	"context"
)

// Provider sends a conversation to a hosted model and returns its reply text.
// Implementations must honour ctx cancellation.
type Provider interface {
	Reply(ctx context.Context, conv Conversation) (string, error)
}
