package workspace

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/creack/pty"

	"github.com/teddycode/teddy/pkg/ui"
)

// RunCommand executes a shell command at the workspace root. When stdout is a
// terminal the command gets a pty so tools that check for one (colored
// output, progress bars) behave as they would in a shell; otherwise it runs
// with plain pipes.
func (w *OSWorkspace) RunCommand(ctx context.Context, command string) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = w.root

	if ui.IsTerminal() {
		f, err := pty.Start(cmd)
		if err == nil {
			defer f.Close()
			var buf bytes.Buffer
			// The pty read side errors once the child exits; treat as EOF.
			_, _ = io.Copy(&buf, f)
			if err := cmd.Wait(); err != nil {
				return buf.String(), fmt.Errorf("command failed: %w\nOutput:\n%s", err, buf.String())
			}
			return buf.String(), nil
		}
		// pty allocation can fail in constrained environments; run plain.
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Dir = w.root
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return buf.String(), fmt.Errorf("command failed: %w\nOutput:\n%s", err, buf.String())
	}
	return buf.String(), nil
}
