package plan

import (
	"testing"
)

func structuredSteps(text string) []Step {
	return parseStructured(segmentDocument(text))
}

func TestHeadedShellBlockSplitsPerLine(t *testing.T) {
	text := `## Step 1: Set up the project

` + "```bash\n# install everything\nnpm install\nnpm run build\n```" + `
`
	steps := structuredSteps(text)
	if len(steps) != 2 {
		t.Fatalf("got %d steps, want 2: %+v", len(steps), steps)
	}
	if steps[0].Target != "npm install" || steps[1].Target != "npm run build" {
		t.Errorf("commands out of order or wrong: %+v", steps)
	}
	for _, s := range steps {
		if s.Type != StepRunCommand {
			t.Errorf("step %d type = %q, want %q", s.ID, s.Type, StepRunCommand)
		}
	}
}

func TestTargetBlockRoutesByActionVerb(t *testing.T) {
	text := `**Target:** src/auth.ts
**Action:** Update the token validation

` + "```ts\nconst ttl = 3600;\n```" + `

**Target:** src/routes.ts
**Action:** Add a logout route

` + "```ts\nrouter.post('/logout', logout);\n```" + `
`
	steps := structuredSteps(text)
	if len(steps) != 2 {
		t.Fatalf("got %d steps, want 2: %+v", len(steps), steps)
	}
	if steps[0].Type != StepEditFile || steps[0].Target != "src/auth.ts" {
		t.Errorf("unexpected first step: %+v", steps[0])
	}
	if steps[1].Type != StepInsertCode || steps[1].Target != "src/routes.ts" {
		t.Errorf("unexpected second step: %+v", steps[1])
	}
	if steps[0].CodeBlock == "" || steps[1].CodeBlock == "" {
		t.Error("code blocks not attached")
	}
}

func TestShellFenceIsNotClaimedTwice(t *testing.T) {
	// The headed extractor claims the fence; the standalone shell extractor
	// must not produce duplicates from it.
	text := `## Step 1: Install

` + "```sh\nnpm ci\n```" + `
`
	steps := structuredSteps(text)
	if len(steps) != 1 {
		t.Fatalf("got %d steps, want 1: %+v", len(steps), steps)
	}
}

func TestNumberedBoldItemWithoutFence(t *testing.T) {
	text := `1. **Update configuration**: adjust the retry settings in ` + "`config.json`" + `
2. **Background**: this service predates the retry framework
`
	steps := structuredSteps(text)
	if len(steps) != 1 {
		t.Fatalf("got %d steps, want 1: %+v", len(steps), steps)
	}
	s := steps[0]
	if s.Type != StepEditFile || s.Target != "config.json" {
		t.Errorf("unexpected step: %+v", s)
	}
	if s.CodeBlock != "" {
		t.Errorf("prose-only item should carry no code block, got %q", s.CodeBlock)
	}
}

func TestNumberedBoldItemWithFence(t *testing.T) {
	text := `1. **Add the logger**: place this in ` + "`src/log.ts`" + `

` + "```ts\nexport const log = console.log;\n```" + `
`
	steps := structuredSteps(text)
	if len(steps) != 1 {
		t.Fatalf("got %d steps, want 1: %+v", len(steps), steps)
	}
	if steps[0].Type != StepInsertCode {
		t.Errorf("type = %q, want %q", steps[0].Type, StepInsertCode)
	}
	if steps[0].Target != "src/log.ts" {
		t.Errorf("target = %q, want src/log.ts", steps[0].Target)
	}
}

func TestNumberedUpdateTitleRoutesToEditFile(t *testing.T) {
	text := `1. **Update error handling**: wrap the dispatch in ` + "`src/x.ts`" + `

` + "```ts\ntry { dispatch(req); } catch (err) { report(err); }\n```" + `
`
	steps := structuredSteps(text)
	if len(steps) != 1 {
		t.Fatalf("got %d steps, want 1: %+v", len(steps), steps)
	}
	if steps[0].Type != StepEditFile {
		t.Errorf("type = %q, want %q", steps[0].Type, StepEditFile)
	}
	if steps[0].Target != "src/x.ts" || steps[0].CodeBlock == "" {
		t.Errorf("unexpected step: %+v", steps[0])
	}
}

func TestStepsOrderedByDocumentPosition(t *testing.T) {
	text := `**Target:** src/b.ts
**Action:** Modify b

` + "```ts\nconst b = 2;\n```" + `

` + "```bash\nnpm test\n```" + `
`
	steps := structuredSteps(text)
	if len(steps) != 2 {
		t.Fatalf("got %d steps, want 2: %+v", len(steps), steps)
	}
	if steps[0].Target != "src/b.ts" || steps[1].Target != "npm test" {
		t.Errorf("steps out of document order: %+v", steps)
	}
	if steps[0].ID != 1 || steps[1].ID != 2 {
		t.Errorf("IDs not renumbered after merge: %+v", steps)
	}
}

func TestCleanTarget(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"`src/app.js`", "src/app.js"},
		{"src/app.js - the main file", "src/app.js"},
		{"src/app.js | main", "src/app.js"},
		{"  src/app.js.  ", "src/app.js"},
		{"src/app.js and more words", "src/app.js"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanTarget(tt.in); got != tt.want {
			t.Errorf("cleanTarget(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInferTargetFromCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		lang string
		want string
	}{
		{"leading path comment", "// src/utils.js\nexport const x = 1;", "js", "src/utils.js"},
		{"hash path comment", "# scripts/run.py\nprint(1)", "python", "scripts/run.py"},
		{"rust mod decl", "pub mod parser;\n", "rust", "parser.rs"},
		{"class decl with lang", "export class OrderService {\n}", "typescript", "OrderService.ts"},
		{"no signal", "const x = 1;", "js", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inferTargetFromCode(tt.code, tt.lang); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnterminatedFenceRunsToEnd(t *testing.T) {
	text := "prose\n```bash\nnpm install\nnpm test"
	doc := segmentDocument(text)
	if len(doc.fences) != 1 {
		t.Fatalf("got %d fences, want 1", len(doc.fences))
	}
	if doc.fences[0].content != "npm install\nnpm test" {
		t.Errorf("fence content = %q", doc.fences[0].content)
	}
}
