// Package verify wraps step execution in a self-checking retry loop:
// derive success criteria once, snapshot targets around every attempt,
// score the attempt, and regenerate a focused corrective step set until the
// criteria pass, the attempt ceiling is reached, or progress stalls.
package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/teddycode/teddy/pkg/config"
	"github.com/teddycode/teddy/pkg/executor"
	"github.com/teddycode/teddy/pkg/llm"
	"github.com/teddycode/teddy/pkg/plan"
	"github.com/teddycode/teddy/pkg/prompts"
	"github.com/teddycode/teddy/pkg/utils"
	"github.com/teddycode/teddy/pkg/workspace"
)

// Engine drives the ANALYZING -> EXECUTING -> VERIFYING -> {DONE |
// REGENERATING | GAVE_UP} state machine for one instruction.
type Engine struct {
	ws     workspace.Workspace
	client llm.StreamCompleter
	cfg    *config.Config
	exec   *executor.Engine
	rules  []Rule

	// previousResults holds one entry per attempt, letting the loop detect
	// stalled progress across consecutive attempts.
	previousResults []Result
}

// NewEngine creates a verification engine around an executor.
func NewEngine(ws workspace.Workspace, client llm.StreamCompleter, cfg *config.Config, exec *executor.Engine) *Engine {
	return &Engine{ws: ws, client: client, cfg: cfg, exec: exec, rules: DefaultRules()}
}

// Results returns the per-attempt history after Run completes.
func (v *Engine) Results() []Result { return v.previousResults }

// Run executes the steps under verification, streaming progress lines.
// Attempts are strictly sequential: each one re-reads current file state, so
// no attempt starts before the previous one's snapshots are complete.
func (v *Engine) Run(ctx context.Context, instruction string, steps []plan.Step) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		v.run(ctx, instruction, steps, ch)
	}()
	return ch
}

// RunCollect drains Run into a slice.
func (v *Engine) RunCollect(ctx context.Context, instruction string, steps []plan.Step) []string {
	var lines []string
	for line := range v.Run(ctx, instruction, steps) {
		lines = append(lines, line)
	}
	return lines
}

func (v *Engine) run(ctx context.Context, instruction string, steps []plan.Step, ch chan<- string) {
	logger := utils.GetLogger()

	targets := fileTargets(steps)
	primary := ""
	if len(targets) > 0 {
		primary = targets[0]
	}

	// ANALYZING: derive the criteria once; retries re-check the same set.
	emit(ctx, ch, "🔎 Analyzing task and deriving success criteria...")
	before := v.readAll(targets)
	criteria := DeriveCriteria(instruction, before, v.rules)
	emit(ctx, ch, fmt.Sprintf("📋 %d success criteria derived", len(criteria)))

	maxAttempts := v.cfg.MaxRetries
	if maxAttempts <= 0 {
		maxAttempts = 10
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			emit(ctx, ch, "⛔ Verification cancelled")
			return
		}

		// EXECUTING: snapshot, run, snapshot.
		beforeRun := v.readAll(targets)
		for line := range v.exec.Execute(ctx, steps) {
			emit(ctx, ch, line)
		}
		snapshots := v.snapshot(targets, beforeRun)

		// VERIFYING.
		emit(ctx, ch, fmt.Sprintf("🧪 Verifying (attempt %d/%d)...", attempt, maxAttempts))
		result := Evaluate(criteria, snapshots)
		v.previousResults = append(v.previousResults, result)
		for _, cr := range result.CriteriaResults {
			mark := "✅"
			if !cr.Passed {
				mark = "❌"
			}
			emit(ctx, ch, fmt.Sprintf("   %s %s: %s", mark, cr.Name, cr.Explanation))
		}

		if result.Passed {
			emit(ctx, ch, "🎉 All success criteria met")
			return
		}
		if v.isStuck() {
			v.giveUp(ctx, ch, result, "no progress across consecutive attempts")
			return
		}
		if attempt == maxAttempts {
			v.giveUp(ctx, ch, result, fmt.Sprintf("attempt ceiling (%d) reached", maxAttempts))
			return
		}

		// REGENERATING: ask for a focused corrective plan and loop.
		emit(ctx, ch, "🔁 Regenerating corrective steps...")
		fresh, err := v.regenerate(ctx, instruction, result, targets, primary)
		if err != nil {
			logger.LogError(fmt.Errorf("regeneration failed: %w", err))
			v.giveUp(ctx, ch, result, fmt.Sprintf("could not regenerate steps: %v", err))
			return
		}
		if len(fresh) == 0 {
			v.giveUp(ctx, ch, result, "regeneration produced no actionable steps")
			return
		}
		emit(ctx, ch, fmt.Sprintf("   📝 %d corrective step(s) planned", len(fresh)))
		steps = fresh
	}
}

// isStuck reports whether the failing-criteria set failed to shrink across
// the two most recent attempts. Identity is compared as well as count: a
// swap of equally many different criteria counts as progress once, but an
// identical failing set never does.
func (v *Engine) isStuck() bool {
	n := len(v.previousResults)
	if n < 2 {
		return false
	}
	prev := v.previousResults[n-2].FailingNames()
	cur := v.previousResults[n-1].FailingNames()
	if len(cur) < len(prev) {
		return false
	}
	if len(cur) > len(prev) {
		return true
	}
	return sameNames(prev, cur)
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if !seen[s] {
			return false
		}
	}
	return true
}

func (v *Engine) giveUp(ctx context.Context, ch chan<- string, result Result, reason string) {
	emit(ctx, ch, fmt.Sprintf("🛑 Giving up: %s", reason))
	emit(ctx, ch, "The following criteria remain unmet and need manual follow-up:")
	for _, cr := range result.CriteriaResults {
		if !cr.Passed {
			emit(ctx, ch, fmt.Sprintf("   ❌ %s: %s", cr.Name, cr.Explanation))
		}
	}
}

func (v *Engine) regenerate(ctx context.Context, instruction string, result Result, targets []string, primary string) ([]plan.Step, error) {
	var failures []string
	for _, cr := range result.CriteriaResults {
		if !cr.Passed {
			failures = append(failures, fmt.Sprintf("%s: %s", cr.Name, cr.Explanation))
		}
	}
	contents := v.readAll(targets)

	prompt := prompts.BuildRegenerationPrompt(instruction, failures, contents, v.cfg.PromptCharLimit)
	reply, err := llm.Complete(ctx, v.client, prompt)
	if err != nil {
		return nil, err
	}

	steps := plan.ParseSimple(reply)
	for i := range steps {
		if steps[i].Type == plan.StepRunCommand || steps[i].Type == plan.StepAnalyze {
			continue
		}
		// A produced target with spaces is parser bleed; fall back to the
		// primary file the task is about.
		if strings.ContainsAny(steps[i].Target, " \t") && primary != "" {
			steps[i].Target = primary
		}
	}
	return steps, nil
}

// fileTargets returns the file paths the steps will touch, in order, without
// duplicates. Commands and analysis steps have no file target. Verification
// never reads files outside this set.
func fileTargets(steps []plan.Step) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range steps {
		if s.Type == plan.StepRunCommand || s.Type == plan.StepAnalyze {
			continue
		}
		if s.Target == "" || seen[s.Target] {
			continue
		}
		seen[s.Target] = true
		out = append(out, s.Target)
	}
	return out
}

func (v *Engine) readAll(targets []string) map[string]string {
	out := make(map[string]string, len(targets))
	for _, t := range targets {
		content, err := v.ws.ReadFile(t)
		if err != nil {
			content = ""
		}
		out[t] = content
	}
	return out
}

func (v *Engine) snapshot(targets []string, before map[string]string) []FileSnapshot {
	after := v.readAll(targets)
	snaps := make([]FileSnapshot, 0, len(targets))
	for _, t := range targets {
		snaps = append(snaps, FileSnapshot{
			Target:        t,
			BeforeContent: before[t],
			AfterContent:  after[t],
		})
	}
	return snaps
}

func emit(ctx context.Context, ch chan<- string, line string) {
	select {
	case ch <- line:
	case <-ctx.Done():
	}
}
