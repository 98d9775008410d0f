package llm

import "context"

// Adapter is the interface for AI providers (Claude, Gemini, ...).
// The agent is provider-agnostic; each provider implements this interface.
type Adapter interface {
	// Chat sends the full conversation plus tool declarations and returns
	// the model's next turn as an ordered list of content blocks.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest represents one request leg to the LLM.
type ChatRequest struct {
	SystemPrompt string
	Messages     []Message
	Tools        []ToolDefinition
	MaxTokens    int
}

// ChatResponse is the model's turn: text blocks and/or tool_use blocks,
// in the order the model emitted them.
type ChatResponse struct {
	Blocks []ContentBlock
	Usage  TokenUsage
}

// ToolDefinition describes a tool available to the LLM.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  ParameterSchema
}

// ParameterSchema defines the structure of tool parameters.
type ParameterSchema struct {
	Type       string
	Properties map[string]Property
	Required   []string
}

// Property defines a single parameter property.
type Property struct {
	Type        string
	Description string
}

// TokenUsage tracks token consumption for one response.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
