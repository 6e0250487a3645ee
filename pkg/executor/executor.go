// Package executor applies plan steps to the workspace, one at a time, in
// order. Progress lines are emitted over an unbuffered channel before each
// step's side effect runs, so the n-th received line happens-before the n-th
// effect is guaranteed complete and draining the channel guarantees the run
// finished. Per-step failures are reported and counted; they never abort the
// batch.
package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/teddycode/teddy/pkg/changetracker"
	"github.com/teddycode/teddy/pkg/config"
	"github.com/teddycode/teddy/pkg/llm"
	"github.com/teddycode/teddy/pkg/locator"
	"github.com/teddycode/teddy/pkg/plan"
	"github.com/teddycode/teddy/pkg/prompts"
	"github.com/teddycode/teddy/pkg/utils"
	"github.com/teddycode/teddy/pkg/workspace"
)

const (
	// Rewrites shorter than this are treated as degenerate completions and
	// discarded so an empty reply cannot silently destroy a file.
	minRewriteLength = 20
	// Targets longer than this are parser bleed, not paths.
	maxTargetLength = 240
)

// Engine executes plan steps against a workspace.
type Engine struct {
	ws     workspace.Workspace
	client llm.StreamCompleter
	cfg    *config.Config
	// Specification gives generation prompts their surrounding context.
	Specification string
}

// New creates an execution engine.
func New(ws workspace.Workspace, client llm.StreamCompleter, cfg *config.Config) *Engine {
	return &Engine{ws: ws, client: client, cfg: cfg}
}

// Execute runs the steps strictly in order and streams progress lines. The
// channel is unbuffered and closes when the batch is done; consumers must
// drain it.
func (e *Engine) Execute(ctx context.Context, steps []plan.Step) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		logger := utils.GetLogger()
		failures := 0
		for _, step := range steps {
			// Cancellation is checked before a step starts, never
			// mid-write, so at most one file write can be cut short.
			if ctx.Err() != nil {
				emit(ctx, ch, "⛔ Execution cancelled")
				return
			}
			emit(ctx, ch, headline(step))
			for _, line := range e.runStep(ctx, step) {
				if strings.Contains(line, "❌") || strings.Contains(line, "⚠️") {
					failures++
				}
				logger.Log(line)
				emit(ctx, ch, line)
			}
		}
		if failures > 0 {
			emit(ctx, ch, fmt.Sprintf("Finished with %d step(s) needing attention", failures))
		}
	}()
	return ch
}

// ExecuteCollect drains Execute into a slice; convenient for callers that do
// not stream.
func (e *Engine) ExecuteCollect(ctx context.Context, steps []plan.Step) []string {
	var lines []string
	for line := range e.Execute(ctx, steps) {
		lines = append(lines, line)
	}
	return lines
}

func emit(ctx context.Context, ch chan<- string, line string) {
	select {
	case ch <- line:
	case <-ctx.Done():
	}
}

func headline(step plan.Step) string {
	switch step.Type {
	case plan.StepCreateFile:
		return fmt.Sprintf("🔨 Step %d: Creating `%s`", step.ID, step.Target)
	case plan.StepEditFile:
		return fmt.Sprintf("✏️ Step %d: Editing `%s`", step.ID, step.Target)
	case plan.StepInsertCode:
		return fmt.Sprintf("📌 Step %d: Inserting code into `%s`", step.ID, step.Target)
	case plan.StepRunCommand:
		return fmt.Sprintf("⚙️ Step %d: Running `%s`", step.ID, step.Target)
	default:
		return fmt.Sprintf("🔍 Step %d: %s", step.ID, utils.Capitalize(step.Description))
	}
}

func (e *Engine) runStep(ctx context.Context, step plan.Step) []string {
	if step.Type != plan.StepRunCommand && step.Type != plan.StepAnalyze {
		if reason, ok := malformedTarget(step.Target); ok {
			return []string{fmt.Sprintf("   ⚠️ Skipped: %s", reason)}
		}
	}
	switch step.Type {
	case plan.StepCreateFile:
		return e.createFile(ctx, step)
	case plan.StepInsertCode:
		return e.insertCode(step)
	case plan.StepEditFile:
		return e.editFile(ctx, step)
	case plan.StepRunCommand:
		return e.runCommand(ctx, step)
	case plan.StepAnalyze:
		return []string{fmt.Sprintf("   ℹ️ Skipped analysis step: %s", step.Description)}
	default:
		return []string{fmt.Sprintf("   ⚠️ Skipped unknown step type %q", step.Type)}
	}
}

// malformedTarget flags paths that are really descriptions the parser failed
// to split off.
func malformedTarget(target string) (string, bool) {
	if target == "" {
		return "step has no target", true
	}
	if strings.Contains(target, " - ") {
		return fmt.Sprintf("target %q looks like a description, not a path", target), true
	}
	if len(target) > maxTargetLength {
		return "target exceeds maximum path length", true
	}
	return "", false
}

func (e *Engine) createFile(ctx context.Context, step plan.Step) []string {
	prompt := prompts.BuildCreateFilePrompt(step.Target, step.Description, e.Specification, e.cfg.PromptCharLimit)
	content, err := llm.Complete(ctx, e.client, prompt)
	if err != nil {
		return []string{fmt.Sprintf("   ❌ Generation failed for %s: %v", step.Target, err)}
	}
	content = llm.StripCodeFences(content)
	if err := e.ws.WriteFile(step.Target, content); err != nil {
		return []string{fmt.Sprintf("   ❌ Failed to write %s: %v", step.Target, err)}
	}
	e.recordChange(step, "", content)
	if err := e.ws.OpenFile(step.Target); err != nil {
		utils.GetLogger().Logf("could not open %s: %v", step.Target, err)
	}
	return []string{fmt.Sprintf("   ✅ Created `%s` (%d bytes)", step.Target, len(content))}
}

func (e *Engine) insertCode(step plan.Step) []string {
	if step.CodeBlock == "" {
		return []string{fmt.Sprintf("   ⚠️ Skipped: no code block to insert into %s", step.Target)}
	}
	existing, err := e.ws.ReadFile(step.Target)
	if errors.Is(err, workspace.ErrNotFound) {
		if werr := e.ws.WriteFile(step.Target, step.CodeBlock); werr != nil {
			return []string{fmt.Sprintf("   ❌ Failed to create %s: %v", step.Target, werr)}
		}
		e.recordChange(step, "", step.CodeBlock)
		return []string{fmt.Sprintf("   ✅ Created `%s` with the provided code", step.Target)}
	}
	if err != nil {
		return []string{fmt.Sprintf("   ❌ Failed to read %s: %v", step.Target, err)}
	}

	result := locator.Insert(existing, step.Description, step.CodeBlock)
	if err := e.ws.WriteFile(step.Target, result.Content); err != nil {
		return []string{fmt.Sprintf("   ❌ Failed to write %s: %v", step.Target, err)}
	}
	e.recordChange(step, existing, result.Content)
	return []string{fmt.Sprintf("   ✅ Inserted code into `%s` (%s)", step.Target, result.Strategy)}
}

func (e *Engine) editFile(ctx context.Context, step plan.Step) []string {
	existing, err := e.ws.ReadFile(step.Target)
	if errors.Is(err, workspace.ErrNotFound) {
		if step.CodeBlock != "" {
			if werr := e.ws.WriteFile(step.Target, step.CodeBlock); werr != nil {
				return []string{fmt.Sprintf("   ❌ Failed to create %s: %v", step.Target, werr)}
			}
			e.recordChange(step, "", step.CodeBlock)
			return []string{fmt.Sprintf("   ✅ Created `%s` with the provided code", step.Target)}
		}
		return []string{fmt.Sprintf("   ⚠️ Skipped: file not found: %s", step.Target)}
	}
	if err != nil {
		return []string{fmt.Sprintf("   ❌ Failed to read %s: %v", step.Target, err)}
	}

	prompt := prompts.BuildEditFilePrompt(step.Target, step.Description, existing, e.cfg.PromptCharLimit)
	rewritten, err := llm.Complete(ctx, e.client, prompt)
	if err != nil {
		return []string{fmt.Sprintf("   ❌ Rewrite failed for %s: %v", step.Target, err)}
	}
	rewritten = llm.StripCodeFences(rewritten)
	if len(strings.TrimSpace(rewritten)) < minRewriteLength {
		return []string{fmt.Sprintf("   ⚠️ Rewrite of %s was suspiciously short; keeping the original file", step.Target)}
	}
	if err := e.ws.WriteFile(step.Target, rewritten); err != nil {
		return []string{fmt.Sprintf("   ❌ Failed to write %s: %v", step.Target, err)}
	}
	e.recordChange(step, existing, rewritten)
	lines := []string{fmt.Sprintf("   ✅ Updated `%s`", step.Target)}
	if diff := changetracker.GetDiff(step.Target, existing, rewritten); diff != "" {
		lines = append(lines, diff)
	}
	return lines
}

func (e *Engine) runCommand(ctx context.Context, step plan.Step) []string {
	output, err := e.ws.RunCommand(ctx, step.Target)
	if err != nil {
		return []string{fmt.Sprintf("   ⚠️ Command `%s` may need manual execution: %v", step.Target, err)}
	}
	line := fmt.Sprintf("   ✅ Ran `%s`", step.Target)
	if trimmed := strings.TrimSpace(output); trimmed != "" {
		line += fmt.Sprintf(" (%d bytes of output)", len(trimmed))
	}
	return []string{line}
}

func (e *Engine) recordChange(step plan.Step, before, after string) {
	roots := e.ws.GetWorkspaceDirs()
	if len(roots) == 0 {
		return
	}
	err := changetracker.RecordChange(roots[0], changetracker.ChangeRecord{
		RequestHash: utils.GenerateRequestHash(step.Description),
		Filename:    step.Target,
		Before:      before,
		After:       after,
		Description: step.Description,
	})
	if err != nil {
		utils.GetLogger().LogError(fmt.Errorf("failed to record change for %s: %w", step.Target, err))
	}
}
