// Package prompts holds the LLM prompt builders. Keeping them in one place
// makes the exact wording reviewable and testable without touching the
// pipeline code.
package prompts

import (
	"fmt"
	"strings"

	"github.com/teddycode/teddy/pkg/utils"
)

// BuildSpecificationPrompt asks the model to turn a raw instruction into a
// short implementation specification.
func BuildSpecificationPrompt(instruction, contextContent, workspaceSummary string) string {
	var b strings.Builder
	b.WriteString("You are a senior software engineer. Write a concise implementation specification for the request below.\n")
	b.WriteString("Cover: the files involved, the changes per file, and any commands that must run.\n")
	b.WriteString("Keep it under 40 lines of markdown. Do not write code.\n\n")
	if workspaceSummary != "" {
		b.WriteString(workspaceSummary)
		b.WriteString("\n")
	}
	if contextContent != "" && contextContent != instruction {
		b.WriteString("Context provided by the user:\n")
		b.WriteString(utils.TruncateForPrompt(contextContent, 4000))
		b.WriteString("\n\n")
	}
	b.WriteString("Request: ")
	b.WriteString(instruction)
	b.WriteString("\n")
	return b.String()
}

// BuildPlanPrompt asks the model for a machine-format plan. The format is
// load-bearing: the simple parser only accepts these lines.
func BuildPlanPrompt(specification string) string {
	var b strings.Builder
	b.WriteString("Convert the following specification into an ordered plan.\n")
	b.WriteString("Output ONLY numbered plan lines in exactly this format, one per line:\n\n")
	b.WriteString("1. CREATE_FILE: path/to/file.ext | short description\n")
	b.WriteString("2. EDIT_FILE: path/to/file.ext | short description\n")
	b.WriteString("3. RUN_COMMAND: command to run | short description\n")
	b.WriteString("4. ANALYZE: what to check | short description\n\n")
	b.WriteString("Rules: use one line per step, no prose, no code blocks, no headers.\n")
	b.WriteString("Paths must be workspace-relative and contain no spaces.\n\n")
	b.WriteString("Specification:\n")
	b.WriteString(specification)
	b.WriteString("\n")
	return b.String()
}

// BuildCreateFilePrompt requests complete, runnable content for a new file.
func BuildCreateFilePrompt(target, description, specification string, charLimit int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Write the complete content of the file `%s`.\n", target))
	b.WriteString(fmt.Sprintf("Purpose: %s\n\n", description))
	b.WriteString("Requirements:\n")
	b.WriteString("- Output ONLY the file content, no explanations.\n")
	b.WriteString("- Include ALL imports. No placeholders, no TODOs, no elisions.\n")
	b.WriteString("- The file must be complete and syntactically valid as written.\n")
	if specification != "" {
		b.WriteString("\nSpecification context:\n")
		b.WriteString(utils.TruncateForPrompt(specification, charLimit))
		b.WriteString("\n")
	}
	return b.String()
}

var refactorHints = []string{"refactor", "convert", "rewrite", "transform"}

// IsRefactorIntent reports whether an edit description calls for a
// whole-file, apply-everywhere rewrite rather than a local change.
func IsRefactorIntent(description string) bool {
	lower := strings.ToLower(description)
	for _, h := range refactorHints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	if strings.Contains(lower, "callback") && strings.Contains(lower, "async") {
		return true
	}
	if strings.Contains(lower, "async") && strings.Contains(lower, "await") {
		return true
	}
	return false
}

// BuildEditFilePrompt requests a full rewritten file. Refactor-intent edits
// get the entire current content and an apply-everywhere instruction; other
// edits get a truncated window.
func BuildEditFilePrompt(target, description, currentContent string, charLimit int) string {
	var b strings.Builder
	refactor := IsRefactorIntent(description)
	b.WriteString(fmt.Sprintf("Modify the file `%s`.\n", target))
	b.WriteString(fmt.Sprintf("Change requested: %s\n\n", description))
	b.WriteString("Requirements:\n")
	b.WriteString("- Output the ENTIRE modified file, no explanations.\n")
	b.WriteString("- Keep all unrelated code exactly as it is.\n")
	if refactor {
		b.WriteString("- Apply the change consistently EVERYWHERE it occurs in the file, not just the first occurrence.\n")
		b.WriteString("\nCurrent content:\n")
		b.WriteString(currentContent)
	} else {
		b.WriteString("\nCurrent content:\n")
		b.WriteString(utils.TruncateForPrompt(currentContent, charLimit))
	}
	b.WriteString("\n")
	return b.String()
}

// BuildRegenerationPrompt asks for a corrective machine-format plan closing
// the gap a failed verification reported.
func BuildRegenerationPrompt(instruction string, failures []string, fileContents map[string]string, charLimit int) string {
	var b strings.Builder
	b.WriteString("A previous attempt at the task below did not fully succeed.\n\n")
	b.WriteString("Task: ")
	b.WriteString(instruction)
	b.WriteString("\n\nUnmet criteria:\n")
	for _, f := range failures {
		b.WriteString("- " + f + "\n")
	}
	b.WriteString("\nCurrent file contents:\n")
	for path, content := range fileContents {
		b.WriteString(fmt.Sprintf("--- %s ---\n", path))
		b.WriteString(utils.TruncateForPrompt(content, charLimit))
		b.WriteString("\n")
	}
	b.WriteString("\nOutput ONLY a short corrective plan in this exact format, one line per step:\n")
	b.WriteString("1. EDIT_FILE: path/to/file.ext | what to change\n")
	b.WriteString("2. RUN_COMMAND: command | why\n")
	b.WriteString("Address only the unmet criteria. Paths must contain no spaces.\n")
	return b.String()
}
