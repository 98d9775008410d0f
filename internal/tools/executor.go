package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rebecaborsan/code-editing-agent/internal/llm"
)

// Executor executes tool calls from the LLM. Failures never escape as
// errors: every outcome becomes a tool_result block, so the model can see
// what went wrong in its next turn.
type Executor struct {
	registry *Registry
	logger   *slog.Logger
}

// NewExecutor creates a new tool executor.
func NewExecutor(registry *Registry, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		registry: registry,
		logger:   logger,
	}
}

// Execute runs the tool named by the tool_use block and returns a
// tool_result block correlated to it.
func (e *Executor) Execute(ctx context.Context, call llm.ToolUseBlock) llm.ToolResultBlock {
	result := llm.ToolResultBlock{
		ToolUseID: call.ID,
		ToolName:  call.Name,
	}

	tool, err := e.registry.Get(call.Name)
	if err != nil {
		e.logger.Warn("tool lookup failed", "tool", call.Name, "error", err)
		result.Content = fmt.Sprintf("Error: %v", err)
		result.IsError = true
		return result
	}

	e.logger.Debug("executing tool", "tool", call.Name, "tool_use_id", call.ID)

	output, err := tool.Execute(ctx, call.Input)
	if err != nil {
		e.logger.Warn("tool rejected arguments", "tool", call.Name, "error", err)
		result.Content = fmt.Sprintf("Error: %v", err)
		result.IsError = true
		return result
	}

	result.Content = output
	return result
}
