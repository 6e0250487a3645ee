// Package workspace provides the file-tree and command capabilities the
// execution pipeline runs against. The pipeline only sees the Workspace
// interface; tests substitute an in-memory implementation.
package workspace

import (
	"context"
	"errors"
)

// ErrNotFound is returned by ReadFile when the path does not exist.
var ErrNotFound = errors.New("file not found")

// CurrentFile is the editor's active file, when one is known.
type CurrentFile struct {
	Path     string
	Contents string
}

// Workspace is the mutable shared resource the pipeline operates on. Only one
// instruction's pipeline may run against it at a time; correctness depends on
// strict step ordering, not locking.
type Workspace interface {
	// GetWorkspaceDirs returns the ordered root paths of the workspace.
	GetWorkspaceDirs() []string
	// ReadFile returns the content of a workspace-relative path, or
	// ErrNotFound when absent.
	ReadFile(path string) (string, error)
	// WriteFile creates or replaces a file, creating parent directories.
	WriteFile(path, content string) error
	// OpenFile is an editor-visibility hint; not required for correctness.
	OpenFile(path string) error
	// FileExists reports whether the path exists.
	FileExists(path string) bool
	// RunCommand executes a shell command at the workspace root and returns
	// its combined output. Non-zero exit or spawn failure is an error.
	RunCommand(ctx context.Context, command string) (string, error)
	// GetCurrentFile returns the active file, when known.
	GetCurrentFile() (*CurrentFile, bool)
}
