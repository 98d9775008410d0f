package readfile

import (
	"context"
	"fmt"
	"os"

	"github.com/rebecaborsan/code-editing-agent/internal/llm"
	"github.com/rebecaborsan/code-editing-agent/internal/tools/local"
)

type Tool struct {
	anchor *local.Anchor
}

func New(anchor *local.Anchor) *Tool {
	return &Tool{anchor: anchor}
}

func (t *Tool) Name() string {
	return "read_file"
}

func (t *Tool) Description() string {
	return "Read a file and return its contents as text."
}

func (t *Tool) Parameters() llm.ParameterSchema {
	return llm.ParameterSchema{
		Type: "object",
		Properties: map[string]llm.Property{
			"path": {
				Type:        "string",
				Description: "The relative path of a file in the working directory.",
			},
		},
		Required: []string{"path"},
	}
}

// Execute reads the whole file. Read failures are reported as result text,
// not errors, so the model can see them.
func (t *Tool) Execute(ctx context.Context, args map[string]any) (string, error) {
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return "", fmt.Errorf("path parameter is required and must be a string")
	}

	data, err := os.ReadFile(t.anchor.Resolve(path))
	if err != nil {
		return fmt.Sprintf("Error reading %s: %v", path, err), nil
	}

	return string(data), nil
}
