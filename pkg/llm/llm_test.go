package llm

import (
	"context"
	"strings"
	"testing"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", "plain text", "plain text"},
		{"fenced with lang", "```js\nconst a = 1;\n```", "const a = 1;"},
		{"fenced without lang", "```\nhello\n```", "hello"},
		{"end marker", "```go\npackage main\n```END", "package main"},
		{"unterminated fence", "```js\nconst a = 1;", "const a = 1;"},
		{"interior fences untouched", "before\n```js\ncode\n```\nafter", "before\n```js\ncode\n```\nafter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFences(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompleteDrainsFragmentsInOrder(t *testing.T) {
	reply := strings.Repeat("abcdefghij", 20)
	s := &Scripted{Default: reply}
	got, err := Complete(context.Background(), s, "anything")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != reply {
		t.Errorf("fragments reassembled incorrectly: %q", got)
	}
}

func TestScriptedMatchesBySubstring(t *testing.T) {
	s := &Scripted{
		Responses: []ScriptedResponse{
			{PromptContains: "first", Reply: "one"},
			{PromptContains: "second", Reply: "two"},
		},
		Default: "fallback",
	}
	cases := map[string]string{
		"the first prompt":  "one",
		"the second prompt": "two",
		"something else":    "fallback",
	}
	for prompt, want := range cases {
		got, err := Complete(context.Background(), s, prompt)
		if err != nil {
			t.Fatalf("Complete(%q): %v", prompt, err)
		}
		if got != want {
			t.Errorf("Complete(%q) = %q, want %q", prompt, got, want)
		}
	}
	if len(s.Prompts) != 3 {
		t.Errorf("prompts recorded = %d, want 3", len(s.Prompts))
	}
}

func TestScriptedCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &Scripted{Default: "reply"}
	if _, err := Complete(ctx, s, "x"); err == nil {
		t.Error("cancelled context should propagate an error")
	}
}
