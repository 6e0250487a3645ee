package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOSWorkspaceReadWrite(t *testing.T) {
	ws := NewOSWorkspace(t.TempDir())

	if _, err := ws.ReadFile("missing.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file error = %v, want ErrNotFound", err)
	}

	if err := ws.WriteFile("nested/dir/file.txt", "hello"); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ws.ReadFile("nested/dir/file.txt")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got != "hello" {
		t.Errorf("content = %q, want hello", got)
	}
	if !ws.FileExists("nested/dir/file.txt") {
		t.Error("FileExists = false for written file")
	}
}

func TestOSWorkspaceOpenFileTracksCurrent(t *testing.T) {
	ws := NewOSWorkspace(t.TempDir())
	if err := ws.WriteFile("a.txt", "content"); err != nil {
		t.Fatal(err)
	}
	if err := ws.OpenFile("a.txt"); err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	cur, ok := ws.GetCurrentFile()
	if !ok || cur.Path != "a.txt" || cur.Contents != "content" {
		t.Errorf("current file = %+v, %v", cur, ok)
	}
}

func TestListFilesHonorsIgnoreRules(t *testing.T) {
	root := t.TempDir()
	ws := NewOSWorkspace(root)
	mustWrite := func(path, content string) {
		t.Helper()
		if err := ws.WriteFile(path, content); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite("src/app.js", "x")
	mustWrite("dist/bundle.js", "x")
	mustWrite("secret.env", "x")
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte("dist/\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, ".teddy"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ".teddy", ".ignore"), []byte("*.env\n"), 0644); err != nil {
		t.Fatal(err)
	}

	files, err := ws.ListFiles()
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	joined := strings.Join(files, ",")
	if !strings.Contains(joined, "src/app.js") {
		t.Errorf("src/app.js missing from %v", files)
	}
	for _, banned := range []string{"dist/bundle.js", "secret.env", ".teddy/"} {
		if strings.Contains(joined, banned) {
			t.Errorf("%s should be ignored, files: %v", banned, files)
		}
	}
}

func TestRunCommandCapturesOutput(t *testing.T) {
	ws := NewOSWorkspace(t.TempDir())
	out, err := ws.RunCommand(context.Background(), "echo hello")
	if err != nil {
		t.Fatalf("RunCommand: %v", err)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("output = %q", out)
	}
}

func TestRunCommandNonZeroExitIsError(t *testing.T) {
	ws := NewOSWorkspace(t.TempDir())
	if _, err := ws.RunCommand(context.Background(), "exit 3"); err == nil {
		t.Error("non-zero exit should return an error")
	}
}

func TestMemWorkspace(t *testing.T) {
	ws := NewMemWorkspace()
	if err := ws.WriteFile("a.txt", "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := ws.ReadFile("b.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	ws.FailCommands["bad"] = true
	if _, err := ws.RunCommand(context.Background(), "bad"); err == nil {
		t.Error("scripted failure not returned")
	}
	if _, err := ws.RunCommand(context.Background(), "good"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(ws.RanCommands) != 2 {
		t.Errorf("RanCommands = %v", ws.RanCommands)
	}
}
