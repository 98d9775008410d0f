package editfile

import (
	"context"
	"os"
	"path/filepath"
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

func readBack(t *testing.T, root, path string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		t.Fatalf("ReadFile(%s) error: %v", path, err)
	}
	return string(data)
}

func TestExecute_CreatesFile(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{
			name: "without old_str",
			args: map[string]any{"path": "new.txt", "new_str": "hello"},
		},
		{
			// old_str is ignored when the file does not exist.
			name: "old_str ignored on create",
			args: map[string]any{"path": "new.txt", "new_str": "hello", "old_str": "anything"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, root := newTestTool(t)

			got, err := tool.Execute(context.Background(), tt.args)
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if got != "Created new.txt" {
				t.Errorf("Execute() = %q, want %q", got, "Created new.txt")
			}
			if content := readBack(t, root, "new.txt"); content != "hello" {
				t.Errorf("file content = %q, want hello", content)
			}
		})
	}
}

func TestExecute_CreatesParentDirs(t *testing.T) {
	tool, root := newTestTool(t)

	got, err := tool.Execute(context.Background(), map[string]any{
		"path":    filepath.Join("deep", "nested", "file.txt"),
		"new_str": "x",
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if got != "Created "+filepath.Join("deep", "nested", "file.txt") {
		t.Errorf("Execute() = %q", got)
	}
	if content := readBack(t, root, filepath.Join("deep", "nested", "file.txt")); content != "x" {
		t.Errorf("file content = %q, want x", content)
	}
}

func TestExecute_OverwritesWhenOldStrEmpty(t *testing.T) {
	tool, root := newTestTool(t)
	if err := os.WriteFile(filepath.Join(root, "f.txt"), []byte("old content"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	got, err := tool.Execute(context.Background(), map[string]any{
		"path":    "f.txt",
		"new_str": "fresh",
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if got != "File f.txt overwritten." {
		t.Errorf("Execute() = %q, want %q", got, "File f.txt overwritten.")
	}
	if content := readBack(t, root, "f.txt"); content != "fresh" {
		t.Errorf("file content = %q, want fresh", content)
	}
}

func TestExecute_ReplacesSingleOccurrence(t *testing.T) {
	tool, root := newTestTool(t)
	if err := os.WriteFile(filepath.Join(root, "f.txt"), []byte("port=8080\nhost=local\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	got, err := tool.Execute(context.Background(), map[string]any{
		"path":    "f.txt",
		"old_str": "port=8080",
		"new_str": "port=9090",
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if got != "OK" {
		t.Errorf("Execute() = %q, want OK", got)
	}
	if content := readBack(t, root, "f.txt"); content != "port=9090\nhost=local\n" {
		t.Errorf("file content = %q", content)
	}
}

func TestExecute_ReplaceErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		oldStr  string
		want    string
	}{
		{
			name:    "zero matches",
			content: "aaa",
			oldStr:  "zzz",
			want:    "Error: old_str not found in file.",
		},
		{
			name:    "multiple matches",
			content: "dup dup",
			oldStr:  "dup",
			want:    "Error: old_str matches multiple times; be explicit or narrow it down.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, root := newTestTool(t)
			if err := os.WriteFile(filepath.Join(root, "f.txt"), []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFile() error: %v", err)
			}

			got, err := tool.Execute(context.Background(), map[string]any{
				"path":    "f.txt",
				"old_str": tt.oldStr,
				"new_str": "replacement",
			})
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Execute() = %q, want %q", got, tt.want)
			}

			// A failed replace leaves the file untouched.
			if content := readBack(t, root, "f.txt"); content != tt.content {
				t.Errorf("file content = %q, want %q (unchanged)", content, tt.content)
			}
		})
	}
}

func TestExecute_RequiresArguments(t *testing.T) {
	tool, _ := newTestTool(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "missing path", args: map[string]any{"new_str": "x"}},
		{name: "missing new_str", args: map[string]any{"path": "f.txt"}},
		{name: "non-string new_str", args: map[string]any{"path": "f.txt", "new_str": 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tool.Execute(context.Background(), tt.args); err == nil {
				t.Error("Execute() should reject invalid arguments")
			}
		})
	}
}
