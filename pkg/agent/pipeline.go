// Package agent wires the detector, executor and verifier into the pipeline
// behind a single user instruction: either execute the plan already sitting
// in the chat context, or generate a specification and a plan first, then
// execute that. The public contract is a lazy, ordered, finite stream of
// progress lines; side effects interleave with emission.
package agent

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/teddycode/teddy/pkg/config"
	"github.com/teddycode/teddy/pkg/executor"
	"github.com/teddycode/teddy/pkg/extractor"
	"github.com/teddycode/teddy/pkg/llm"
	"github.com/teddycode/teddy/pkg/plan"
	"github.com/teddycode/teddy/pkg/prompts"
	"github.com/teddycode/teddy/pkg/utils"
	"github.com/teddycode/teddy/pkg/verify"
	"github.com/teddycode/teddy/pkg/workspace"
)

// Summarizer provides the optional workspace overview used in specification
// prompts. OSWorkspace implements it; test workspaces may not.
type Summarizer interface {
	Summary(maxFiles int) string
}

// Pipeline handles one instruction at a time against one workspace. Running
// two pipelines against the same root concurrently is not supported.
type Pipeline struct {
	ws     workspace.Workspace
	client llm.StreamCompleter
	cfg    *config.Config
}

// NewPipeline assembles the pipeline from explicitly constructed
// collaborators.
func NewPipeline(ws workspace.Workspace, client llm.StreamCompleter, cfg *config.Config) *Pipeline {
	return &Pipeline{ws: ws, client: client, cfg: cfg}
}

// HandleMessage processes one user chat turn, given its ordered text
// fragments, and streams progress lines until the pipeline reaches DONE or
// GAVE_UP.
func (p *Pipeline) HandleMessage(ctx context.Context, fragments []string) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		p.handle(ctx, fragments, ch)
	}()
	return ch
}

// HandleCollect drains HandleMessage into a slice.
func (p *Pipeline) HandleCollect(ctx context.Context, fragments []string) []string {
	var lines []string
	for line := range p.HandleMessage(ctx, fragments) {
		lines = append(lines, line)
	}
	return lines
}

func (p *Pipeline) handle(ctx context.Context, fragments []string, ch chan<- string) {
	content := extractor.Extract(fragments)
	if content.UserInstruction == "" {
		emit(ctx, ch, "⚠️ Nothing to do: the message was empty")
		return
	}

	exec := executor.New(p.ws, p.client, p.cfg)
	verifier := verify.NewEngine(p.ws, p.client, p.cfg, exec)

	// A plan already in context plus execution intent skips generation.
	detection := plan.Detect(content.ContextContent)
	if detection.IsPlanDocument && plan.HasExecutionIntent(content.UserInstruction) {
		emit(ctx, ch, fmt.Sprintf("📋 Found a plan in context (%s format) with %d step(s); executing it", detection.Format, len(detection.Steps)))
		for line := range verifier.Run(ctx, content.UserInstruction, detection.Steps) {
			emit(ctx, ch, line)
		}
		return
	}

	// Two-phase pipeline: specification, then plan, then execution.
	emit(ctx, ch, "🧸 Drafting an implementation specification...")
	summary := ""
	if s, ok := p.ws.(Summarizer); ok {
		summary = s.Summary(200)
	}
	specPrompt := prompts.BuildSpecificationPrompt(content.UserInstruction, content.ContextContent, summary)
	specification, err := llm.Complete(ctx, p.client, specPrompt)
	if err != nil {
		emit(ctx, ch, fmt.Sprintf("❌ Could not generate a specification: %v", err))
		return
	}
	p.saveArtifact(ch, ctx, "spec.md", specification)

	emit(ctx, ch, "🗺️ Generating the step plan...")
	planText, err := llm.Complete(ctx, p.client, prompts.BuildPlanPrompt(specification))
	if err != nil {
		emit(ctx, ch, fmt.Sprintf("❌ Could not generate a plan: %v", err))
		return
	}
	p.saveArtifact(ch, ctx, "plan.md", planText)

	steps := plan.ParseSimple(planText)
	if len(steps) == 0 {
		// Never fabricate steps; stop before any file I/O.
		emit(ctx, ch, "❌ Could not parse actionable steps from the generated plan")
		return
	}
	emit(ctx, ch, fmt.Sprintf("📋 Plan has %d step(s)", len(steps)))

	exec.Specification = specification
	for line := range verifier.Run(ctx, content.UserInstruction, steps) {
		emit(ctx, ch, line)
	}
}

// saveArtifact writes a generated artifact under .teddy, overwriting the
// previous instruction's version.
func (p *Pipeline) saveArtifact(ch chan<- string, ctx context.Context, name, content string) {
	path := filepath.Join(".teddy", name)
	if err := p.ws.WriteFile(path, content); err != nil {
		utils.GetLogger().LogError(fmt.Errorf("failed to save %s: %w", path, err))
		return
	}
	emit(ctx, ch, fmt.Sprintf("   💾 Saved `%s`", path))
}

func emit(ctx context.Context, ch chan<- string, line string) {
	select {
	case ch <- line:
	case <-ctx.Done():
	}
}
