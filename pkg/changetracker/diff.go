package changetracker

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	RedColor    = "\x1b[31m"
	GreenColor  = "\x1b[32m"
	YellowColor = "\x1b[33m"
	BoldStyle   = "\x1b[1m"
	ResetColor  = "\x1b[0m"
)

// GetDiff returns a colored, line-oriented diff between two versions of a
// file, preceded by a one-line stats header.
func GetDiff(filename, originalCode, newCode string) string {
	if originalCode == newCode {
		return ""
	}
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(originalCode, newCode)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var result strings.Builder
	result.WriteString(getStatsFromDiff(diffs, filename))
	for _, d := range diffs {
		lines := strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, line := range lines {
				result.WriteString(fmt.Sprintf("%s- %s%s\n", RedColor, line, ResetColor))
			}
		case diffmatchpatch.DiffInsert:
			for _, line := range lines {
				result.WriteString(fmt.Sprintf("%s+ %s%s\n", GreenColor, line, ResetColor))
			}
		case diffmatchpatch.DiffEqual:
			lines = contextWindow(lines)
			for _, line := range lines {
				result.WriteString(fmt.Sprintf("  %s\n", line))
			}
		}
	}
	return result.String()
}

// contextWindow keeps only a few context lines around changes so large
// unchanged regions do not drown the diff.
func contextWindow(lines []string) []string {
	const keep = 2
	if len(lines) <= keep*2+1 {
		return lines
	}
	out := append([]string{}, lines[:keep]...)
	out = append(out, fmt.Sprintf("  ... (%d unchanged lines)", len(lines)-keep*2))
	out = append(out, lines[len(lines)-keep:]...)
	return out
}

func getStatsFromDiff(diffs []diffmatchpatch.Diff, filename string) string {
	var result strings.Builder
	additions, deletions := calculateChanges(diffs)
	result.WriteString(fmt.Sprintf("%s%s%s%s ", BoldStyle, YellowColor, filename, ResetColor))
	if additions > 0 {
		result.WriteString(fmt.Sprintf("%s%s+++%d%s ", BoldStyle, GreenColor, additions, ResetColor))
	}
	if deletions > 0 {
		result.WriteString(fmt.Sprintf("%s%s---%d%s", BoldStyle, RedColor, deletions, ResetColor))
	}
	result.WriteString("\n")
	return result.String()
}

// calculateChanges counts added and deleted lines.
func calculateChanges(diffs []diffmatchpatch.Diff) (additions, deletions int) {
	for _, diff := range diffs {
		n := strings.Count(strings.TrimSuffix(diff.Text, "\n"), "\n") + 1
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			additions += n
		case diffmatchpatch.DiffDelete:
			deletions += n
		}
	}
	return
}
