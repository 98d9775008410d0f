package tools

import (
	"errors"
	"fmt"

	"github.com/rebecaborsan/code-editing-agent/internal/llm"
)

// ErrUnknownTool is returned when the model requests a tool that was never
// registered.
var ErrUnknownTool = errors.New("unknown tool")

// Registry manages available tools. It is built once at startup and never
// mutated afterwards.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates a new tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry. Registering two tools with the same
// name is a configuration error.
func (r *Registry) Register(tool Tool) error {
	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return tool, nil
}

// ToDefinitions converts all registered tools to LLM tool definitions,
// in registration order.
func (r *Registry) ToDefinitions() []llm.ToolDefinition {
	definitions := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		definitions = append(definitions, llm.ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return definitions
}
