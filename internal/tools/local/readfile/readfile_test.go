package readfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rebecaborsan/code-editing-agent/internal/tools/local"
)

func newTestTool(t *testing.T) (*Tool, string) {
	t.Helper()
	root := t.TempDir()
	anchor, err := local.NewAnchor(root)
	if err != nil {
		t.Fatalf("NewAnchor() error: %v", err)
	}
	return New(anchor), root
}

func TestExecute_ReadsFile(t *testing.T) {
	tool, root := newTestTool(t)
	if err := os.WriteFile(filepath.Join(root, "config.txt"), []byte("port=8080"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	got, err := tool.Execute(context.Background(), map[string]any{"path": "config.txt"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if got != "port=8080" {
		t.Errorf("Execute() = %q, want %q", got, "port=8080")
	}
}

func TestExecute_MissingFileIsData(t *testing.T) {
	tool, _ := newTestTool(t)

	got, err := tool.Execute(context.Background(), map[string]any{"path": "nope.txt"})
	if err != nil {
		t.Fatalf("Execute() error: %v (read failures must be result text)", err)
	}
	if !strings.HasPrefix(got, "Error reading nope.txt") {
		t.Errorf("Execute() = %q, want 'Error reading nope.txt' prefix", got)
	}
}

func TestExecute_RequiresPath(t *testing.T) {
	tool, _ := newTestTool(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "missing path", args: map[string]any{}},
		{name: "empty path", args: map[string]any{"path": ""}},
		{name: "non-string path", args: map[string]any{"path": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tool.Execute(context.Background(), tt.args); err == nil {
				t.Error("Execute() should reject invalid path argument")
			}
		})
	}
}
