// Package local holds the filesystem tools and the anchor-directory path
// resolution they share.
package local

import (
	"os"
	"path/filepath"
	"strings"
)

// Anchor is the fixed root directory all relative tool paths resolve
// against. Anchoring to one directory at startup keeps tool behavior
// deterministic regardless of where the process was invoked from.
type Anchor struct {
	root string
}

// NewAnchor creates an anchor rooted at dir. An empty dir anchors to the
// current working directory at startup.
func NewAnchor(dir string) (*Anchor, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		return &Anchor{root: cwd}, nil
	}

	abs, err := ExpandPath(dir)
	if err != nil {
		return nil, err
	}
	return &Anchor{root: abs}, nil
}

// Root returns the anchor directory.
func (a *Anchor) Root() string {
	return a.root
}

// Resolve maps a tool-supplied relative path to an absolute path under the
// anchor directory.
func (a *Anchor) Resolve(path string) string {
	if path == "" || path == "." {
		return a.root
	}
	return filepath.Join(a.root, path)
}

// ExpandPath expands ~ to the home directory and makes the path absolute.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			path = home
		} else {
			path = filepath.Join(home, path[1:])
		}
	}
	return filepath.Abs(path)
}
