package llm

import "context"

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest contains the parameters for an LLM completion request.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// CompletionResponse contains the result of an LLM completion request.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// Provider defines the interface for LLM providers. Implementations must be
// safe for concurrent use; the router issues one call per inbound message.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
