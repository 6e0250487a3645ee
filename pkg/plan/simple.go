package plan

import (
	"regexp"
	"strings"
)

// ParseSimple parses the machine plan format the generator is asked to emit:
//
//	1. CREATE_FILE: src/main.ts | entry point
//	2. RUN_COMMAND: npm install
//
// One step per line; the remainder splits on "|" (preferred) or " - " into
// target and description.
func ParseSimple(text string) []Step {
	var steps []Step
	for _, line := range strings.Split(text, "\n") {
		m := machineLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		verb := strings.ToUpper(m[2])
		target, description := splitTargetDescription(m[3], verb == "RUN_COMMAND")
		if target == "" && verb != "ANALYZE" {
			continue
		}
		if description == "" {
			description = target
		}

		var stepType StepType
		switch verb {
		case "CREATE_FILE":
			stepType = StepCreateFile
		case "EDIT_FILE":
			stepType = StepEditFile
		case "RUN_COMMAND":
			stepType = StepRunCommand
		case "ANALYZE":
			stepType = StepAnalyze
		}
		steps = append(steps, Step{
			ID:          len(steps) + 1,
			Type:        stepType,
			Target:      target,
			Description: description,
		})
	}
	return steps
}

var trailingDescRe = regexp.MustCompile(`^(\S+?)\s+([A-Z].*)$`)

// splitTargetDescription separates "target | description" (or the " - "
// variant), stripping backticks and any trailing capitalized fragment that is
// description text bleeding into the path.
func splitTargetDescription(rest string, isCommand bool) (string, string) {
	rest = strings.TrimSpace(strings.ReplaceAll(rest, "`", ""))

	var target, description string
	if idx := strings.Index(rest, "|"); idx >= 0 {
		target = strings.TrimSpace(rest[:idx])
		description = strings.TrimSpace(rest[idx+1:])
	} else if idx := strings.Index(rest, " - "); idx >= 0 {
		target = strings.TrimSpace(rest[:idx])
		description = strings.TrimSpace(rest[idx+3:])
	} else {
		target = rest
	}

	// Commands keep their spaces; only path-like targets are tightened.
	if !isCommand && strings.ContainsAny(target, " \t") && !looksLikeCommand(target) {
		if m := trailingDescRe.FindStringSubmatch(target); m != nil {
			target = m[1]
			if description == "" {
				description = m[2]
			}
		}
	}
	return target, description
}

func looksLikeCommand(s string) bool {
	first := strings.Fields(s)
	if len(first) == 0 {
		return false
	}
	switch first[0] {
	case "npm", "npx", "yarn", "pnpm", "go", "cargo", "python", "python3",
		"pip", "pip3", "make", "mkdir", "touch", "git", "node", "tsc", "mv", "cp":
		return true
	}
	return false
}
