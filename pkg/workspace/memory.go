package workspace

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// MemWorkspace is an in-memory Workspace used by tests. Commands are not
// executed; they are recorded, and fail when their string appears in
// FailCommands.
type MemWorkspace struct {
	Files        map[string]string
	OpenedFiles  []string
	RanCommands  []string
	FailCommands map[string]bool
	Current      *CurrentFile
}

// NewMemWorkspace creates an empty in-memory workspace.
func NewMemWorkspace() *MemWorkspace {
	return &MemWorkspace{
		Files:        make(map[string]string),
		FailCommands: make(map[string]bool),
	}
}

// GetWorkspaceDirs returns nil: the in-memory workspace has no on-disk root,
// which also keeps change recording from touching the real filesystem.
func (w *MemWorkspace) GetWorkspaceDirs() []string { return nil }

func (w *MemWorkspace) ReadFile(path string) (string, error) {
	content, ok := w.Files[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return content, nil
}

func (w *MemWorkspace) WriteFile(path, content string) error {
	w.Files[path] = content
	return nil
}

func (w *MemWorkspace) OpenFile(path string) error {
	if _, ok := w.Files[path]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	w.OpenedFiles = append(w.OpenedFiles, path)
	return nil
}

func (w *MemWorkspace) FileExists(path string) bool {
	_, ok := w.Files[path]
	return ok
}

func (w *MemWorkspace) RunCommand(_ context.Context, command string) (string, error) {
	w.RanCommands = append(w.RanCommands, command)
	if w.FailCommands[command] {
		return "", fmt.Errorf("command failed: %s", command)
	}
	return "", nil
}

func (w *MemWorkspace) GetCurrentFile() (*CurrentFile, bool) {
	if w.Current == nil {
		return nil, false
	}
	return w.Current, true
}

// Paths returns the sorted file paths, convenient for assertions.
func (w *MemWorkspace) Paths() []string {
	var out []string
	for p := range w.Files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Dump renders the files for debugging test failures.
func (w *MemWorkspace) Dump() string {
	var b strings.Builder
	for _, p := range w.Paths() {
		fmt.Fprintf(&b, "--- %s ---\n%s\n", p, w.Files[p])
	}
	return b.String()
}

var _ Workspace = (*MemWorkspace)(nil)
