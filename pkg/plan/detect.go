package plan

import (
	"regexp"
	"strings"
)

const minPlanLength = 100

// Markers whose presence signals a structured (teddy-spec style) plan.
var structuredMarkers = []*regexp.Regexp{
	regexp.MustCompile(`\*\*Target:\*\*`),
	regexp.MustCompile(`\*\*Action:\*\*`),
	regexp.MustCompile(`\*\*Implementation Logic:\*\*`),
	regexp.MustCompile(`\*\*Goal:\*\*`),
	regexp.MustCompile(`(?m)^##\s+Step\s+\d+`),
	regexp.MustCompile(`(?m)^###\s+Task\s+\S+:`),
}

var machineLineRe = regexp.MustCompile(`(?im)^\s*(\d+\.|-|\*)\s*(CREATE_FILE|EDIT_FILE|RUN_COMMAND|ANALYZE):\s*(.+)$`)

// Detect decides whether text is a plan document and, when it is, parses it
// into an ordered step list.
func Detect(text string) Detection {
	if len(text) < minPlanLength {
		return Detection{Format: FormatNone}
	}

	if machineLineRe.MatchString(text) {
		steps := ParseSimple(text)
		if len(steps) > 0 {
			return Detection{IsPlanDocument: true, Steps: steps, Format: FormatSimple}
		}
	}

	doc := segmentDocument(text)

	markerCount := 0
	for _, re := range structuredMarkers {
		if re.MatchString(text) {
			markerCount++
		}
	}
	numberedBoldWithFence := hasNumberedBoldItems(doc) && len(doc.fences) > 0

	if markerCount >= 2 || numberedBoldWithFence {
		steps := parseStructured(doc)
		if len(steps) > 0 {
			format := FormatTeddySpec
			if markerCount < 2 {
				format = FormatNumberedSteps
			}
			return Detection{IsPlanDocument: true, Steps: steps, Format: format}
		}
	}

	return Detection{Format: FormatNone}
}

func hasNumberedBoldItems(doc *document) bool {
	for _, item := range doc.numbered {
		if item.title != "" {
			return true
		}
	}
	return false
}

// Execution-intent phrases. A detected plan is only auto-executed when the
// user's instruction matches one of these.
var intentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bexecute\b`),
	regexp.MustCompile(`(?i)\bimplement\b`),
	regexp.MustCompile(`(?i)\bfix the (next |immediate )*steps?\b`),
	regexp.MustCompile(`(?i)\bdo the (next )*steps?\b`),
	regexp.MustCompile(`(?i)\brun the steps\b`),
	regexp.MustCompile(`(?i)\bcarry out\b`),
	regexp.MustCompile(`(?i)\bfollow (this|the) plan\b`),
	regexp.MustCompile(`(?i)\bapply these steps\b`),
	regexp.MustCompile(`(?i)\bstart the implementation\b`),
	regexp.MustCompile(`(?i)\bperform the steps\b`),
}

// HasExecutionIntent reports whether the instruction asks to run a plan.
func HasExecutionIntent(instruction string) bool {
	trimmed := strings.TrimSpace(instruction)
	if trimmed == "" {
		return false
	}
	for _, re := range intentPatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}
