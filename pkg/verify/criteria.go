package verify

import (
	"fmt"
	"regexp"
	"strings"
)

// The task analyzer derives success criteria from the instruction text plus
// the pre-execution content of the target files. Derivation is an explicit
// rule set, not model judgement, so a criterion either fires or it does not
// and retries re-check the same set.

// Rule derives zero or more criteria for an instruction.
type Rule interface {
	Derive(instruction string, before map[string]string) []Criterion
}

// DefaultRules is the analyzer's standard rule set, in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		asyncAwaitRule{},
		removalRule{},
		creationRule{},
		exportPreservationRule{},
		changeRule{},
	}
}

// DeriveCriteria runs the rules and returns the combined ordered criteria.
func DeriveCriteria(instruction string, before map[string]string, rules []Rule) []Criterion {
	var criteria []Criterion
	for _, rule := range rules {
		criteria = append(criteria, rule.Derive(instruction, before)...)
	}
	return criteria
}

// asyncAwaitRule fires on instructions that ask for callback-to-async
// conversion: the result must use async/await and must not keep the nested
// callback pattern.
type asyncAwaitRule struct{}

var nestedCallbackRe = regexp.MustCompile(`(?s)\(\s*(?:function\s*\(|\w+\s*=>|\(?err\b)[^)]*\)\s*(?:=>|\{).*?\(\s*(?:function\s*\(|\w+\s*=>)`)

func (asyncAwaitRule) Derive(instruction string, before map[string]string) []Criterion {
	lower := strings.ToLower(instruction)
	wantsAsync := strings.Contains(lower, "async") || strings.Contains(lower, "await")
	mentionsCallbacks := strings.Contains(lower, "callback")
	if !wantsAsync && !mentionsCallbacks {
		return nil
	}

	var criteria []Criterion
	if wantsAsync {
		criteria = append(criteria, Criterion{
			Name:        "uses-async-await",
			Description: "modified files use async/await",
			Check: func(snaps []FileSnapshot) (bool, string) {
				for _, s := range snaps {
					if s.AfterContent == "" {
						continue
					}
					if strings.Contains(s.AfterContent, "async") && strings.Contains(s.AfterContent, "await") {
						return true, fmt.Sprintf("%s uses async/await", s.Target)
					}
				}
				return false, "no target file uses async/await"
			},
		})
	}
	if mentionsCallbacks {
		criteria = append(criteria, Criterion{
			Name:        "no-nested-callbacks",
			Description: "nested callback pattern removed",
			Check: func(snaps []FileSnapshot) (bool, string) {
				for _, s := range snaps {
					if nestedCallbackRe.MatchString(s.AfterContent) {
						return false, fmt.Sprintf("%s still contains a nested callback pattern", s.Target)
					}
				}
				return true, "no nested callback pattern remains"
			},
		})
	}
	return criteria
}

// removalRule fires on "remove X" / "delete X" instructions: the named token
// must not survive in the results.
type removalRule struct{}

var removalRe = regexp.MustCompile("(?i)\\b(?:remove|delete|drop|get rid of)\\s+(?:the\\s+|all\\s+|any\\s+)?`?([A-Za-z_][\\w.]*)`?")

var removalStopwords = map[string]bool{
	"file": true, "files": true, "line": true, "lines": true, "code": true,
	"it": true, "this": true, "that": true, "them": true, "unused": true,
	"old": true, "dead": true, "redundant": true,
}

func (removalRule) Derive(instruction string, before map[string]string) []Criterion {
	m := removalRe.FindStringSubmatch(instruction)
	if m == nil || removalStopwords[strings.ToLower(m[1])] {
		return nil
	}
	token := m[1]
	// Only meaningful when the token is actually present beforehand.
	present := false
	for _, content := range before {
		if strings.Contains(content, token) {
			present = true
			break
		}
	}
	if !present {
		return nil
	}
	return []Criterion{{
		Name:        "removed-" + token,
		Description: fmt.Sprintf("%q no longer appears in the target files", token),
		Check: func(snaps []FileSnapshot) (bool, string) {
			for _, s := range snaps {
				if strings.Contains(s.AfterContent, token) {
					return false, fmt.Sprintf("%s still contains %q", s.Target, token)
				}
			}
			return true, fmt.Sprintf("%q was removed", token)
		},
	}}
}

// creationRule fires on create/add/implement instructions: every target that
// did not exist before must exist, non-empty, afterwards.
type creationRule struct{}

func (creationRule) Derive(instruction string, before map[string]string) []Criterion {
	lower := strings.ToLower(instruction)
	if !strings.Contains(lower, "create") && !strings.Contains(lower, "add") &&
		!strings.Contains(lower, "implement") && !strings.Contains(lower, "build") {
		return nil
	}
	return []Criterion{{
		Name:        "new-files-created",
		Description: "newly targeted files exist with content",
		Check: func(snaps []FileSnapshot) (bool, string) {
			sawNew := false
			for _, s := range snaps {
				if s.BeforeContent != "" {
					continue
				}
				sawNew = true
				if strings.TrimSpace(s.AfterContent) == "" {
					return false, fmt.Sprintf("%s was not created", s.Target)
				}
			}
			if !sawNew {
				// Nothing new was targeted; the edit criteria carry the load.
				return true, "no new files were required"
			}
			return true, "all new files were created"
		},
	}}
}

// exportPreservationRule protects existing public surface: exported symbols
// present before an edit must still be present after it.
type exportPreservationRule struct{}

var exportRe = regexp.MustCompile(`(?m)^\s*(?:export\s+(?:default\s+)?(?:function|class|const|let|var|interface|type)\s+(\w+)|module\.exports\.(\w+)|func\s+([A-Z]\w*)\()`)

func exportedSymbols(content string) []string {
	var out []string
	for _, m := range exportRe.FindAllStringSubmatch(content, -1) {
		for _, g := range m[1:] {
			if g != "" {
				out = append(out, g)
			}
		}
	}
	return out
}

func (exportPreservationRule) Derive(instruction string, before map[string]string) []Criterion {
	exportsByFile := make(map[string][]string)
	for path, content := range before {
		if syms := exportedSymbols(content); len(syms) > 0 {
			exportsByFile[path] = syms
		}
	}
	if len(exportsByFile) == 0 {
		return nil
	}
	return []Criterion{{
		Name:        "exports-preserved",
		Description: "previously exported symbols are still exported",
		Check: func(snaps []FileSnapshot) (bool, string) {
			for _, s := range snaps {
				expected, ok := exportsByFile[s.Target]
				if !ok {
					continue
				}
				if s.AfterContent == "" {
					return false, fmt.Sprintf("%s disappeared; its exports are gone", s.Target)
				}
				for _, sym := range expected {
					if !strings.Contains(s.AfterContent, sym) {
						return false, fmt.Sprintf("%s no longer exports %s", s.Target, sym)
					}
				}
			}
			return true, "public symbols preserved"
		},
	}}
}

// changeRule is the backstop: the run must have changed or created at least
// one target file.
type changeRule struct{}

func (changeRule) Derive(instruction string, before map[string]string) []Criterion {
	return []Criterion{{
		Name:        "files-updated",
		Description: "at least one target file changed",
		Check: func(snaps []FileSnapshot) (bool, string) {
			if len(snaps) == 0 {
				// Command-only plans have nothing to snapshot.
				return true, "no file targets to verify"
			}
			for _, s := range snaps {
				if s.BeforeContent != s.AfterContent {
					return true, fmt.Sprintf("%s changed", s.Target)
				}
			}
			return false, "no target file changed"
		},
	}}
}
