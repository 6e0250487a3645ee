package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teddycode/teddy/pkg/utils"
)

// OSWorkspace is the real file-system implementation, rooted at a single
// directory. All paths are resolved relative to the root.
type OSWorkspace struct {
	root        string
	currentFile *CurrentFile
}

// NewOSWorkspace creates a workspace rooted at dir.
func NewOSWorkspace(dir string) *OSWorkspace {
	return &OSWorkspace{root: dir}
}

func (w *OSWorkspace) GetWorkspaceDirs() []string {
	return []string{w.root}
}

func (w *OSWorkspace) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(w.root, path)
}

func (w *OSWorkspace) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(w.resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func (w *OSWorkspace) WriteFile(path, content string) error {
	full := w.resolve(path)
	dir := filepath.Dir(full)
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	utils.GetLogger().Logf("Wrote file %s (%d bytes)", path, len(content))
	return nil
}

// OpenFile marks the file as the current one and logs the hint. A CLI has no
// editor surface to raise, so visibility ends here.
func (w *OSWorkspace) OpenFile(path string) error {
	content, err := w.ReadFile(path)
	if err != nil {
		return err
	}
	w.currentFile = &CurrentFile{Path: path, Contents: content}
	utils.GetLogger().Logf("Opened file %s", path)
	return nil
}

func (w *OSWorkspace) FileExists(path string) bool {
	_, err := os.Stat(w.resolve(path))
	return err == nil
}

func (w *OSWorkspace) GetCurrentFile() (*CurrentFile, bool) {
	if w.currentFile == nil {
		return nil, false
	}
	return w.currentFile, true
}

// ListFiles walks the workspace, honoring .gitignore and .teddy/.ignore
// rules, and returns relative paths.
func (w *OSWorkspace) ListFiles() ([]string, error) {
	rules := GetIgnoreRules(w.root)
	var files []string
	err := filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		if info.IsDir() {
			base := filepath.Base(rel)
			if base == ".git" || base == ".teddy" || base == "node_modules" {
				return filepath.SkipDir
			}
			if rules != nil && rules.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if rules != nil && rules.MatchesPath(rel) {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk workspace: %w", err)
	}
	return files, nil
}

// Summary returns a short textual overview of the workspace tree, used as
// context in generation prompts.
func (w *OSWorkspace) Summary(maxFiles int) string {
	files, err := w.ListFiles()
	if err != nil {
		return ""
	}
	if len(files) > maxFiles {
		files = files[:maxFiles]
	}
	var b strings.Builder
	b.WriteString("Workspace files:\n")
	for _, f := range files {
		b.WriteString("  " + f + "\n")
	}
	return b.String()
}

var _ Workspace = (*OSWorkspace)(nil)
