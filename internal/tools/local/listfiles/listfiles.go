package listfiles

import (
	"context"
	"fmt"
	"io/fs"
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
	return "list_files"
}

func (t *Tool) Description() string {
	return "Lists files in a directory, recursively. Directories are suffixed with '/'. Paths are relative to the working directory."
}

func (t *Tool) Parameters() llm.ParameterSchema {
	return llm.ParameterSchema{
		Type: "object",
		Properties: map[string]llm.Property{
			"directory": {
				Type:        "string",
				Description: "Directory path, relative to the working directory. Defaults to the working directory itself.",
			},
		},
	}
}

func (t *Tool) Execute(ctx context.Context, args map[string]any) (string, error) {
	directory, _ := args["directory"].(string)

	var root string
	if directory == "" || directory == filepath.Base(t.anchor.Root()) {
		// The model sometimes asks for the project directory by name;
		// treat that as the anchor itself.
		root = t.anchor.Root()
	} else {
		root = t.anchor.Resolve(directory)
	}

	if _, err := os.Stat(root); os.IsNotExist(err) {
		return fmt.Sprintf("Directory not found: %s", directory), nil
	}

	var entries []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			// Only children are listed, not the directory itself.
			return nil
		}
		if d.IsDir() {
			entries = append(entries, rel+string(filepath.Separator))
		} else {
			entries = append(entries, rel)
		}
		return nil
	})
	if err != nil {
		return fmt.Sprintf("Error listing files in %s: %v", directory, err), nil
	}

	if len(entries) == 0 {
		return "(empty)", nil
	}
	return strings.Join(entries, "\n"), nil
}
