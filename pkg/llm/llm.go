// Package llm abstracts the completion capability the pipeline needs: one
// prompt in, a lazy ordered sequence of text fragments out. Concrete
// providers live beside the interface; the core never sees more than
// StreamCompleter.
package llm

import (
	"context"
	"strings"
)

// StreamCompleter is the single capability the pipeline consumes. The
// fragment callback is invoked in order; returning an error from it stops
// the stream and propagates.
type StreamCompleter interface {
	StreamComplete(ctx context.Context, prompt string, onFragment func(fragment string) error) error
}

// Complete drains a full completion into one string.
func Complete(ctx context.Context, c StreamCompleter, prompt string) (string, error) {
	var b strings.Builder
	err := c.StreamComplete(ctx, prompt, func(fragment string) error {
		b.WriteString(fragment)
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// StripCodeFences removes a markdown code-fence wrapper from a completion
// when the model wraps the whole answer in one.
func StripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return text
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return text
	}
	// Drop the opening fence (with optional language tag).
	lines = lines[1:]
	// Drop the closing fence if present.
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		if strings.TrimSpace(lines[i]) == "```" || strings.TrimSpace(lines[i]) == "```END" {
			lines = lines[:i]
		}
		break
	}
	return strings.Join(lines, "\n")
}
