package plan

import (
	"regexp"
	"strings"
)

// The parser segments the document exactly once into labeled blocks, then
// runs the typed extractors over the segmented structure. Extractors claim
// segments as they consume them so a later, broader pattern never re-derives
// steps from text an earlier, more specific pattern already used.

type fence struct {
	startLine int // index of the opening ``` line
	endLine   int // index of the closing ``` line (== startLine when unterminated)
	lang      string
	content   string
}

type header struct {
	line  int
	level int
	text  string // text after the hashes
}

type numberedItem struct {
	line   int
	number int
	title  string // bold lead-in text, empty when the item has none
	rest   string // text after the lead-in on the same line
}

type document struct {
	lines    []string
	fences   []fence
	headers  []header
	numbered []numberedItem

	consumedFences map[int]bool
	consumedLines  map[int]bool
}

var (
	headerRe       = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	fenceOpenRe    = regexp.MustCompile("^\\s*```(\\S*)\\s*$")
	numberedBoldRe = regexp.MustCompile(`^\s*(\d+)\.\s+\*\*(.+?)\*\*:?\s*(.*)$`)
	numberedRe     = regexp.MustCompile(`^\s*(\d+)\.\s+(.*)$`)
)

// segmentDocument tokenizes the text into headers, fenced code blocks and
// numbered items in a single pass.
func segmentDocument(text string) *document {
	doc := &document{
		lines:          strings.Split(text, "\n"),
		consumedFences: make(map[int]bool),
		consumedLines:  make(map[int]bool),
	}

	inFence := false
	var current fence
	var body strings.Builder

	for i, line := range doc.lines {
		if inFence {
			if strings.TrimSpace(line) == "```" {
				current.endLine = i
				current.content = strings.TrimSuffix(body.String(), "\n")
				doc.fences = append(doc.fences, current)
				inFence = false
				continue
			}
			body.WriteString(line)
			body.WriteString("\n")
			continue
		}

		if m := fenceOpenRe.FindStringSubmatch(line); m != nil {
			inFence = true
			current = fence{startLine: i, lang: strings.ToLower(m[1])}
			body.Reset()
			continue
		}
		if m := headerRe.FindStringSubmatch(line); m != nil {
			doc.headers = append(doc.headers, header{line: i, level: len(m[1]), text: strings.TrimSpace(m[2])})
			continue
		}
		if m := numberedBoldRe.FindStringSubmatch(line); m != nil {
			doc.numbered = append(doc.numbered, numberedItem{
				line:   i,
				number: atoiSafe(m[1]),
				title:  strings.TrimSpace(m[2]),
				rest:   strings.TrimSpace(m[3]),
			})
			continue
		}
		if m := numberedRe.FindStringSubmatch(line); m != nil {
			doc.numbered = append(doc.numbered, numberedItem{
				line:   i,
				number: atoiSafe(m[1]),
				rest:   strings.TrimSpace(m[2]),
			})
		}
	}

	// An unterminated fence still counts as a block running to end of file.
	if inFence {
		current.endLine = len(doc.lines) - 1
		current.content = strings.TrimSuffix(body.String(), "\n")
		doc.fences = append(doc.fences, current)
	}
	return doc
}

func atoiSafe(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return n
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// fencesBetween returns indexes of unconsumed fences whose opening line falls
// in [start, end).
func (d *document) fencesBetween(start, end int) []int {
	var out []int
	for i, f := range d.fences {
		if d.consumedFences[i] {
			continue
		}
		if f.startLine >= start && f.startLine < end {
			out = append(out, i)
		}
	}
	return out
}

// consumeFence marks a fence and its source lines as claimed.
func (d *document) consumeFence(i int) {
	d.consumedFences[i] = true
	for l := d.fences[i].startLine; l <= d.fences[i].endLine; l++ {
		d.consumedLines[l] = true
	}
}

// consumeRange marks a line range [start, end) as claimed.
func (d *document) consumeRange(start, end int) {
	for l := start; l < end && l < len(d.lines); l++ {
		d.consumedLines[l] = true
	}
}

// nextHeaderLine returns the line index of the first header after the given
// line, or the document length when there is none.
func (d *document) nextHeaderLine(after int) int {
	for _, h := range d.headers {
		if h.line > after {
			return h.line
		}
	}
	return len(d.lines)
}

func isShellLang(lang string) bool {
	switch lang {
	case "bash", "sh", "shell", "zsh", "console", "terminal":
		return true
	}
	return false
}
