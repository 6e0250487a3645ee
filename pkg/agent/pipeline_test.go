package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teddycode/teddy/pkg/config"
	"github.com/teddycode/teddy/pkg/llm"
	"github.com/teddycode/teddy/pkg/workspace"
)

func TestPipelineEmptyMessage(t *testing.T) {
	p := NewPipeline(workspace.NewMemWorkspace(), &llm.Scripted{Default: "x"}, config.DefaultConfig())
	lines := p.HandleCollect(context.Background(), nil)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Nothing to do")
}

func TestPipelineTwoPhaseGeneration(t *testing.T) {
	ws := workspace.NewMemWorkspace()
	client := &llm.Scripted{
		Responses: []llm.ScriptedResponse{
			{
				PromptContains: "senior software engineer",
				Reply:          "Create src/calc.js exporting add and subtract functions.",
			},
			{
				PromptContains: "Convert the following specification",
				Reply:          "1. CREATE_FILE: src/calc.js | calculator module with add and subtract",
			},
			{
				PromptContains: "Write the complete content",
				Reply:          "exports.add = (a, b) => a + b;\nexports.subtract = (a, b) => a - b;\n",
			},
		},
	}
	p := NewPipeline(ws, client, config.DefaultConfig())

	lines := p.HandleCollect(context.Background(), []string{"create a calculator module in src/calc.js"})
	out := strings.Join(lines, "\n")

	assert.Contains(t, out, "Drafting an implementation specification")
	assert.Contains(t, out, "Plan has 1 step(s)")
	assert.Contains(t, out, "All success criteria met")

	content, ok := ws.Files["src/calc.js"]
	require.True(t, ok, "calculator file not created; output:\n%s", out)
	assert.Contains(t, content, "exports.add")

	// Generated artifacts are persisted for inspection.
	assert.Contains(t, ws.Files, ".teddy/spec.md")
	assert.Contains(t, ws.Files, ".teddy/plan.md")
}

func TestPipelineExecutesPlanFromContext(t *testing.T) {
	planDoc := `## Step 1: Update the request handler

**Target:** src/x.ts
**Action:** Modify the handler to validate its input before dispatch

` + "```ts\nexport function handler(req) {\n  validate(req);\n  return dispatch(req);\n}\n```" + `
`
	ws := workspace.NewMemWorkspace()
	client := &llm.Scripted{}
	p := NewPipeline(ws, client, config.DefaultConfig())

	lines := p.HandleCollect(context.Background(), []string{planDoc, "implement the steps above"})
	out := strings.Join(lines, "\n")

	assert.Contains(t, out, "Found a plan in context")
	assert.Contains(t, out, "All success criteria met")

	content, ok := ws.Files["src/x.ts"]
	require.True(t, ok, "plan step not executed; output:\n%s", out)
	assert.Contains(t, content, "validate(req);")

	// Direct execution must not go through specification generation.
	for _, prompt := range client.Prompts {
		assert.NotContains(t, prompt, "senior software engineer")
	}
	assert.NotContains(t, ws.Files, ".teddy/spec.md")
}

func TestPipelinePlanWithoutIntentFallsBackToGeneration(t *testing.T) {
	planDoc := `## Step 1: Update the request handler

**Target:** src/x.ts
**Action:** Modify the handler to validate its input before dispatch

` + "```ts\nexport const x = 1;\n```" + `
`
	ws := workspace.NewMemWorkspace()
	client := &llm.Scripted{
		Responses: []llm.ScriptedResponse{
			{PromptContains: "senior software engineer", Reply: "Summary of the plan."},
		},
		Default: "no actionable plan here",
	}
	p := NewPipeline(ws, client, config.DefaultConfig())

	lines := p.HandleCollect(context.Background(), []string{planDoc, "what do you think of this plan?"})
	out := strings.Join(lines, "\n")

	// No execution intent: the plan is treated as context, and the
	// generated reply yields no machine steps, so nothing runs.
	assert.Contains(t, out, "Drafting an implementation specification")
	assert.Contains(t, out, "Could not parse actionable steps")
	assert.NotContains(t, ws.Files, "src/x.ts")
}

func TestPipelineStopsWhenPlanUnparseable(t *testing.T) {
	ws := workspace.NewMemWorkspace()
	client := &llm.Scripted{Default: "I would suggest thinking about the architecture first."}
	p := NewPipeline(ws, client, config.DefaultConfig())

	lines := p.HandleCollect(context.Background(), []string{"create a calculator module"})
	out := strings.Join(lines, "\n")

	assert.Contains(t, out, "Could not parse actionable steps")
	assert.NotContains(t, out, "All success criteria met")
	// Only the saved artifacts may exist; no source file was touched.
	for _, path := range ws.Paths() {
		assert.True(t, strings.HasPrefix(path, ".teddy/"), "unexpected file %s", path)
	}
}
