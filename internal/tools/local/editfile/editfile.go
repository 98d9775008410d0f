package editfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

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
	return "edit_file"
}

func (t *Tool) Description() string {
	return "Create/overwrite or edit a text file.\n" +
		"- If the file does not exist: create it with new_str (old_str is ignored).\n" +
		"- If the file exists and old_str is empty/missing: overwrite with new_str.\n" +
		"- If the file exists and old_str is provided: replace exactly ONE occurrence."
}

func (t *Tool) Parameters() llm.ParameterSchema {
	return llm.ParameterSchema{
		Type: "object",
		Properties: map[string]llm.Property{
			"path": {
				Type:        "string",
				Description: "Relative path from the working directory.",
			},
			"old_str": {
				Type:        "string",
				Description: "Text to replace (optional, only needed if editing)",
			},
			"new_str": {
				Type:        "string",
				Description: "Text to replace old_str with",
			},
		},
		Required: []string{"path", "new_str"},
	}
}

func (t *Tool) Execute(ctx context.Context, args map[string]any) (string, error) {
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return "", fmt.Errorf("path parameter is required and must be a string")
	}
	newStr, ok := args["new_str"].(string)
	if !ok {
		return "", fmt.Errorf("new_str parameter is required and must be a string")
	}
	oldStr, _ := args["old_str"].(string)

	absPath := t.anchor.Resolve(path)

	// Create: the file does not exist yet, old_str is ignored.
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return fmt.Sprintf("Error creating %s: %v", path, err), nil
		}
		if err := os.WriteFile(absPath, []byte(newStr), 0o644); err != nil {
			return fmt.Sprintf("Error creating %s: %v", path, err), nil
		}
		return fmt.Sprintf("Created %s", path), nil
	}

	// Overwrite: the file exists and no old_str was given.
	if oldStr == "" {
		if err := os.WriteFile(absPath, []byte(newStr), 0o644); err != nil {
			return fmt.Sprintf("Error writing %s: %v", path, err), nil
		}
		return fmt.Sprintf("File %s overwritten.", path), nil
	}

	// Single replace: old_str must match exactly once.
	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Sprintf("Error reading %s: %v", path, err), nil
	}
	content := string(data)

	switch count := strings.Count(content, oldStr); {
	case count == 0:
		return "Error: old_str not found in file.", nil
	case count > 1:
		return "Error: old_str matches multiple times; be explicit or narrow it down.", nil
	}

	content = strings.Replace(content, oldStr, newStr, 1)
	if err := os.WriteFile(absPath, []byte(content), 0o644); err != nil {
		return fmt.Sprintf("Error writing %s: %v", path, err), nil
	}
	return "OK", nil
}
