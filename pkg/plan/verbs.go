package plan

import "strings"

// Verb routing between edit_file and insert_code is a product heuristic, not
// an architectural contract, so the keyword sets live here as configuration.

// ModificationVerbs route a code block to edit_file when they appear in the
// step title or action text.
var ModificationVerbs = []string{
	"modify", "update", "change", "edit", "implement", "fix",
	"remove", "delete", "replace", "refactor", "rename", "move",
	"convert", "transform", "rewrite",
}

// CreationVerbs route a code block to insert_code.
var CreationVerbs = []string{"add", "insert", "create"}

// ActionVerbs is the union used to decide whether a numbered item without a
// code block is actionable at all.
var ActionVerbs = []string{
	"add", "insert", "create", "modify", "update", "change", "edit",
	"implement", "fix", "remove", "delete", "replace", "refactor",
}

func containsAnyVerb(text string, verbs []string) bool {
	lower := strings.ToLower(text)
	for _, v := range verbs {
		if containsWord(lower, v) {
			return true
		}
	}
	return false
}

// containsWord matches a verb on word boundaries so "address" does not count
// as "add".
func containsWord(lower, word string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(lower[start-1])
		afterOK := end == len(lower) || !isWordChar(lower[end])
		// Allow common suffixes like "updating", "fixes".
		if beforeOK && (afterOK || strings.HasPrefix(lower[end:], "s") ||
			strings.HasPrefix(lower[end:], "ing") || strings.HasPrefix(lower[end:], "ed") ||
			strings.HasPrefix(lower[end:], "es")) {
			return true
		}
		idx = end
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// IsModification reports whether the text calls for modifying existing code
// rather than inserting new code. Creation verbs alone do not count.
func IsModification(text string) bool {
	return containsAnyVerb(text, ModificationVerbs)
}

// IsActionable reports whether the text contains any recognized action verb.
func IsActionable(text string) bool {
	return containsAnyVerb(text, ActionVerbs)
}
