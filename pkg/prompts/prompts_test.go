package prompts

import (
	"strings"
	"testing"
)

func TestIsRefactorIntent(t *testing.T) {
	tests := []struct {
		description string
		want        bool
	}{
		{"refactor the data layer", true},
		{"convert callbacks to promises", true},
		{"rewrite the parser", true},
		{"use async and await throughout", true},
		{"replace the callback with async handling", true},
		{"add a log line", false},
		{"fix the off-by-one in the loop", false},
	}
	for _, tt := range tests {
		if got := IsRefactorIntent(tt.description); got != tt.want {
			t.Errorf("IsRefactorIntent(%q) = %v, want %v", tt.description, got, tt.want)
		}
	}
}

func TestBuildPlanPromptPinsTheFormat(t *testing.T) {
	p := BuildPlanPrompt("spec body")
	for _, want := range []string{"CREATE_FILE:", "EDIT_FILE:", "RUN_COMMAND:", "ANALYZE:", "spec body"} {
		if !strings.Contains(p, want) {
			t.Errorf("plan prompt missing %q", want)
		}
	}
}

func TestBuildEditFilePromptTruncatesNonRefactors(t *testing.T) {
	long := strings.Repeat("x", 500)
	p := BuildEditFilePrompt("a.js", "add a log line", long, 100)
	if !strings.Contains(p, "truncated") {
		t.Error("non-refactor edit should truncate long content")
	}

	p = BuildEditFilePrompt("a.js", "convert callbacks to async", long, 100)
	if strings.Contains(p, "truncated") {
		t.Error("refactor edit must receive the full content")
	}
	if !strings.Contains(p, "EVERYWHERE") {
		t.Error("refactor edit missing the apply-everywhere instruction")
	}
}

func TestBuildRegenerationPromptListsFailures(t *testing.T) {
	p := BuildRegenerationPrompt("remove foo", []string{"removed-foo: still present"}, map[string]string{"a.js": "var foo;"}, 1000)
	for _, want := range []string{"remove foo", "removed-foo: still present", "--- a.js ---", "EDIT_FILE:"} {
		if !strings.Contains(p, want) {
			t.Errorf("regeneration prompt missing %q", want)
		}
	}
}
