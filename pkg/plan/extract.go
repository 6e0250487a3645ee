package plan

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// The four structured extractors run in priority order over the segmented
// document. Each claims the segments it uses; merged output is re-ordered by
// source position so execution order follows the document.

type locatedStep struct {
	step Step
	line int
}

func parseStructured(doc *document) []Step {
	var located []locatedStep
	located = append(located, extractHeadedSteps(doc)...)
	located = append(located, extractTargetBlocks(doc)...)
	located = append(located, extractShellBlocks(doc)...)
	located = append(located, extractNumberedItems(doc)...)

	sort.SliceStable(located, func(i, j int) bool { return located[i].line < located[j].line })

	steps := make([]Step, 0, len(located))
	for i, ls := range located {
		ls.step.ID = i + 1
		steps = append(steps, ls.step)
	}
	return steps
}

var (
	stepHeaderRe  = regexp.MustCompile(`(?i)^Step\s+\d+\s*:?\s*(.*)$`)
	taskHeaderRe  = regexp.MustCompile(`(?i)^Task\s+\S+\s*:\s*(.*)$`)
	targetLineRe  = regexp.MustCompile(`\*\*Target:\*\*\s*(.+)`)
	actionLineRe  = regexp.MustCompile(`\*\*Action:\*\*\s*(.+)`)
	pathCommentRe = regexp.MustCompile(`^\s*(?://|#|--)\s*([\w./-]+\.[A-Za-z0-9_]+)\s*$`)
	modDeclRe     = regexp.MustCompile(`(?m)^\s*(?:pub\s+)?mod\s+(\w+)\s*;?`)
	classDeclRe   = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:default\s+)?(?:abstract\s+)?(class|interface)\s+(\w+)`)
	backtickPathRe = regexp.MustCompile("`([\\w./-]+\\.[A-Za-z0-9_]+)`")
	barePathRe     = regexp.MustCompile(`(^|\s)([\w./-]+\.[A-Za-z]{1,5})(\s|$|[,.:;)])`)
)

// Pattern 1: "## Step N: Title" sections; every fenced block inside becomes a
// step.
func extractHeadedSteps(doc *document) []locatedStep {
	var out []locatedStep
	for _, h := range doc.headers {
		title := ""
		if m := stepHeaderRe.FindStringSubmatch(h.text); m != nil {
			title = strings.TrimSpace(m[1])
		} else if m := taskHeaderRe.FindStringSubmatch(h.text); m != nil {
			title = strings.TrimSpace(m[1])
		} else {
			continue
		}
		if title == "" {
			title = h.text
		}

		sectionEnd := doc.nextHeaderLine(h.line)
		target := findTargetInRange(doc, h.line, sectionEnd)

		for _, fi := range doc.fencesBetween(h.line, sectionEnd) {
			f := doc.fences[fi]
			if isShellLang(f.lang) {
				out = append(out, commandSteps(f, title)...)
				doc.consumeFence(fi)
				continue
			}
			stepTarget := target
			if stepTarget == "" {
				stepTarget = inferTargetFromCode(f.content, f.lang)
			}
			if stepTarget == "" {
				// Nothing to anchor the block to; drop it.
				continue
			}
			out = append(out, locatedStep{
				step: Step{Type: routeByVerb(title), Target: stepTarget, Description: title, CodeBlock: f.content},
				line: f.startLine,
			})
			doc.consumeFence(fi)
		}
		doc.consumeRange(h.line, sectionEnd)
	}
	return out
}

// Pattern 2: "**Target:** path" followed by a code block up to the next
// target or header. Shell blocks are left for pattern 3.
func extractTargetBlocks(doc *document) []locatedStep {
	var out []locatedStep
	for i, line := range doc.lines {
		if doc.consumedLines[i] {
			continue
		}
		m := targetLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		target := cleanTarget(m[1])
		if target == "" {
			continue
		}

		end := doc.nextHeaderLine(i)
		for j := i + 1; j < end; j++ {
			if targetLineRe.MatchString(doc.lines[j]) {
				end = j
				break
			}
		}

		action := ""
		for j := i; j < end; j++ {
			if am := actionLineRe.FindStringSubmatch(doc.lines[j]); am != nil {
				action = strings.TrimSpace(am[1])
				break
			}
		}
		if action == "" {
			action = fmt.Sprintf("Modify %s", target)
		}

		for _, fi := range doc.fencesBetween(i, end) {
			f := doc.fences[fi]
			if isShellLang(f.lang) {
				continue
			}
			out = append(out, locatedStep{
				step: Step{Type: routeByVerb(action), Target: target, Description: action, CodeBlock: f.content},
				line: f.startLine,
			})
			doc.consumeFence(fi)
			break
		}
		doc.consumedLines[i] = true
	}
	return out
}

// Pattern 3: standalone shell blocks not already claimed; each non-comment
// line is its own run_command step.
func extractShellBlocks(doc *document) []locatedStep {
	var out []locatedStep
	for fi, f := range doc.fences {
		if doc.consumedFences[fi] || !isShellLang(f.lang) {
			continue
		}
		out = append(out, commandSteps(f, "Run command")...)
		doc.consumeFence(fi)
	}
	return out
}

// Pattern 4: numbered bold-lead-in items not already claimed.
func extractNumberedItems(doc *document) []locatedStep {
	var out []locatedStep
	for idx, item := range doc.numbered {
		if item.title == "" || doc.consumedLines[item.line] {
			continue
		}

		end := doc.nextHeaderLine(item.line)
		if idx+1 < len(doc.numbered) && doc.numbered[idx+1].line < end {
			end = doc.numbered[idx+1].line
		}

		handled := false
		for _, fi := range doc.fencesBetween(item.line, end) {
			f := doc.fences[fi]
			if isShellLang(f.lang) {
				out = append(out, commandSteps(f, item.title)...)
				doc.consumeFence(fi)
				handled = true
				continue
			}
			target := findTargetInRange(doc, item.line, end)
			if target == "" {
				target = inferTargetFromCode(f.content, f.lang)
			}
			if target == "" {
				target = findInlinePath(item.title + " " + item.rest)
			}
			if target == "" {
				continue
			}
			out = append(out, locatedStep{
				step: Step{Type: routeByVerb(item.title), Target: target, Description: item.title, CodeBlock: f.content},
				line: f.startLine,
			})
			doc.consumeFence(fi)
			handled = true
		}
		if handled {
			doc.consumeRange(item.line, end)
			continue
		}

		details := strings.TrimSpace(item.title + " " + item.rest)
		for j := item.line + 1; j < end; j++ {
			details += " " + strings.TrimSpace(doc.lines[j])
		}
		if !IsActionable(details) {
			continue // purely informational
		}
		target := findInlinePath(details)
		if target == "" {
			continue
		}
		out = append(out, locatedStep{
			step: Step{Type: StepEditFile, Target: target, Description: strings.TrimSpace(item.title + ": " + item.rest)},
			line: item.line,
		})
		doc.consumeRange(item.line, end)
	}
	return out
}

// commandSteps splits a shell fence into one run_command step per
// non-comment, non-blank line.
func commandSteps(f fence, description string) []locatedStep {
	var out []locatedStep
	offset := 0
	for _, line := range strings.Split(f.content, "\n") {
		offset++
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, locatedStep{
			step: Step{Type: StepRunCommand, Target: trimmed, Description: description},
			line: f.startLine + offset,
		})
	}
	return out
}

func routeByVerb(text string) StepType {
	if IsModification(text) {
		return StepEditFile
	}
	return StepInsertCode
}

func findTargetInRange(doc *document, start, end int) string {
	for j := start; j < end && j < len(doc.lines); j++ {
		if m := targetLineRe.FindStringSubmatch(doc.lines[j]); m != nil {
			return cleanTarget(m[1])
		}
	}
	return ""
}

// cleanTarget strips backticks, separators and trailing description text that
// bled into a path.
func cleanTarget(raw string) string {
	t := strings.TrimSpace(strings.ReplaceAll(raw, "`", ""))
	if idx := strings.Index(t, " - "); idx >= 0 {
		t = t[:idx]
	}
	if idx := strings.Index(t, "|"); idx >= 0 {
		t = t[:idx]
	}
	fields := strings.Fields(t)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimRight(fields[0], ".,:;")
}

// inferTargetFromCode derives a file path from the code itself: a leading
// file-path comment, a mod declaration, or a class/interface declaration.
func inferTargetFromCode(code, lang string) string {
	lines := strings.Split(code, "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if m := pathCommentRe.FindStringSubmatch(line); m != nil {
			return m[1]
		}
		break
	}
	if m := modDeclRe.FindStringSubmatch(code); m != nil {
		return m[1] + ".rs"
	}
	if m := classDeclRe.FindStringSubmatch(code); m != nil {
		return m[2] + extForLang(lang)
	}
	return ""
}

func extForLang(lang string) string {
	switch lang {
	case "typescript", "ts", "tsx":
		return ".ts"
	case "javascript", "js", "jsx":
		return ".js"
	case "python", "py":
		return ".py"
	case "go", "golang":
		return ".go"
	case "rust", "rs":
		return ".rs"
	case "java":
		return ".java"
	default:
		return ".ts"
	}
}

// findInlinePath locates a backticked path or bare word.ext token in prose.
func findInlinePath(text string) string {
	if m := backtickPathRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := barePathRe.FindStringSubmatch(text); m != nil {
		return m[2]
	}
	return ""
}
