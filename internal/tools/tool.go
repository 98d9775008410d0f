package tools

import (
	"context"

	"github.com/rebecaborsan/code-editing-agent/internal/llm"
)

// Tool represents an executable tool that the LLM can call.
//
// Execute returns the text sent back to the model. The error return is
// reserved for malformed arguments; domain failures (missing file, bad edit)
// come back as descriptive result strings so the model can see and react to
// them.
type Tool interface {
	// Name returns the tool's name
	Name() string

	// Description returns a description for the LLM
	Description() string

	// Parameters returns the parameter schema
	Parameters() llm.ParameterSchema

	// Execute runs the tool with the given arguments
	Execute(ctx context.Context, args map[string]any) (string, error)
}
