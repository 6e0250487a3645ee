// Package locator decides where inside an existing file to splice a code
// fragment, driven by hints in the step description. Each strategy is a small
// pure function over the file text; Insert tries them in a fixed priority
// order and reports which one fired.
package locator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Result is the spliced file content plus the strategy that produced it.
type Result struct {
	Content  string
	Strategy string
}

var (
	topHintRe    = regexp.MustCompile(`(?i)\b(top|beginning|first line)\b`)
	importHintRe = regexp.MustCompile(`(?i)\bafter\s+(the\s+)?imports?\b`)
	lineHintRe   = regexp.MustCompile(`(?i)\b(?:around\s+)?line\s+(\d+)\b`)
	insideHintRe = regexp.MustCompile("(?i)\\b(?:in|into|to|inside|within)\\s+(?:the\\s+)?(?:function\\s+|method\\s+)?`?([A-Za-z_$][\\w$]*)`?")
	afterHintRe  = regexp.MustCompile("(?i)\\b(?:after|following)\\s+(?:the\\s+)?(?:function\\s+|method\\s+|class\\s+)?`?([A-Za-z_$][\\w$]*)`?")
)

// Words that the hint regexes can capture but never name a symbol.
var hintStopwords = map[string]bool{
	"file": true, "top": true, "beginning": true, "end": true, "it": true,
	"this": true, "that": true, "place": true, "code": true, "line": true,
	"function": true, "method": true, "class": true, "the": true, "a": true,
	"imports": true, "import": true, "block": true, "section": true,
}

// Insert splices code into content according to the description hints.
func Insert(content, description, code string) Result {
	if topHintRe.MatchString(description) {
		return insertAtTop(content, code)
	}
	if importHintRe.MatchString(description) {
		return insertAfterImports(content, code)
	}
	if m := lineHintRe.FindStringSubmatch(description); m != nil {
		n, _ := strconv.Atoi(m[1])
		return insertAtLine(content, code, n)
	}
	if name := hintSymbol(insideHintRe, description); name != "" {
		return insertInFunction(content, code, name)
	}
	if name := hintSymbol(afterHintRe, description); name != "" {
		return insertAfterSymbol(content, code, name)
	}
	return appendToEnd(content, code, "append")
}

func hintSymbol(re *regexp.Regexp, description string) string {
	for _, m := range re.FindAllStringSubmatch(description, -1) {
		name := m[1]
		if !hintStopwords[strings.ToLower(name)] {
			return name
		}
	}
	return ""
}

func insertAtTop(content, code string) Result {
	return Result{Content: code + "\n\n" + content, Strategy: "top"}
}

var importLineRe = regexp.MustCompile(`^\s*(import\b|from\s+\S+\s+import\b|use\b|require\b|include\b|#include\b|using\b|const\s+\w+\s*=\s*require\()`)

// insertAfterImports finds the contiguous run of import-style lines at the
// top of the file (only blank and comment lines may precede it) and splices
// the code right after it. An import-like line deeper in the file, such as a
// dynamic import inside a function body, is not an import block; files
// without a leading one fall back to prepending.
func insertAfterImports(content, code string) Result {
	lines := strings.Split(content, "\n")
	start := -1
	end := -1
	for i, line := range lines {
		if importLineRe.MatchString(line) {
			if start < 0 {
				start = i
			}
			end = i
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isCommentLine(trimmed) {
			continue
		}
		// First real code line; anything import-like past here is not part
		// of the leading block.
		break
	}
	if start < 0 {
		r := insertAtTop(content, code)
		r.Strategy = "top (no imports found)"
		return r
	}
	out := append([]string{}, lines[:end+1]...)
	out = append(out, "", code)
	out = append(out, lines[end+1:]...)
	return Result{Content: strings.Join(out, "\n"), Strategy: "after-imports"}
}

func isCommentLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") ||
		strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "--")
}

// insertAtLine inserts immediately before the given 1-based line, clamped to
// the file length.
func insertAtLine(content, code string, line int) Result {
	lines := strings.Split(content, "\n")
	idx := line - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(lines) {
		idx = len(lines)
	}
	out := append([]string{}, lines[:idx]...)
	out = append(out, code)
	out = append(out, lines[idx:]...)
	return Result{Content: strings.Join(out, "\n"), Strategy: fmt.Sprintf("line %d", line)}
}

// Language-agnostic brace-introducer patterns for a named function or method.
func functionPatterns(name string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(name)
	return []*regexp.Regexp{
		// function name(...)  /  async function name(...)
		regexp.MustCompile(`(?m)(?:export\s+)?(?:async\s+)?function\s+` + quoted + `\s*\(`),
		// fn / func / fun / def name(...)
		regexp.MustCompile(`(?m)\b(?:fn|func|fun|def)\s+(?:\([^)]*\)\s*)?` + quoted + `\s*\(`),
		// C-like method:  name(...) {   with optional return-type annotation
		regexp.MustCompile(`(?m)\b` + quoted + `\s*\([^)]*\)\s*(?::\s*[\w<>\[\], .|&]+)?\s*\{`),
		// typed-return variant:  ReturnType name(...) {
		regexp.MustCompile(`(?m)[\w<>\[\]*&]+\s+` + quoted + `\s*\([^)]*\)\s*\{`),
	}
}

// insertInFunction places the code right after the opening brace of the named
// function. Absent a structural match it falls back to the next brace after a
// bare mention of the name, and finally to appending.
func insertInFunction(content, code, name string) Result {
	for _, re := range functionPatterns(name) {
		loc := re.FindStringIndex(content)
		if loc == nil {
			continue
		}
		braceIdx := strings.Index(content[loc[0]:], "{")
		if braceIdx < 0 {
			continue
		}
		pos := loc[0] + braceIdx + 1
		return Result{
			Content:  content[:pos] + "\n" + code + content[pos:],
			Strategy: fmt.Sprintf("in function %s", name),
		}
	}

	if idx := strings.Index(content, name); idx >= 0 {
		braceIdx := strings.Index(content[idx:], "{")
		if braceIdx >= 0 {
			pos := idx + braceIdx + 1
			return Result{
				Content:  content[:pos] + "\n" + code + content[pos:],
				Strategy: fmt.Sprintf("after brace near %s", name),
			}
		}
	}
	return appendToEnd(content, code, fmt.Sprintf("append (%s not found)", name))
}

// insertAfterSymbol locates the named symbol, walks a balanced-brace scan
// from the first opening brace at or after it to the true end of the
// enclosing block, and splices the code right after that closing brace.
func insertAfterSymbol(content, code, name string) Result {
	idx := strings.Index(content, name)
	if idx < 0 {
		return appendToEnd(content, code, fmt.Sprintf("append (reference %s not found)", name))
	}
	open := strings.Index(content[idx:], "{")
	if open < 0 {
		return appendToEnd(content, code, fmt.Sprintf("append (no block after %s)", name))
	}
	pos := idx + open
	depth := 0
	for pos < len(content) {
		switch content[pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end := pos + 1
				return Result{
					Content:  content[:end] + "\n\n" + code + content[end:],
					Strategy: fmt.Sprintf("after %s", name),
				}
			}
		}
		pos++
	}
	// Unbalanced file; appending is the only safe spot.
	return appendToEnd(content, code, fmt.Sprintf("append (unclosed block after %s)", name))
}

func appendToEnd(content, code, strategy string) Result {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return Result{Content: code + "\n", Strategy: strategy}
	}
	return Result{Content: trimmed + "\n\n" + code + "\n", Strategy: strategy}
}
