package llm

import (
	"context"
	"fmt"
	"strings"
)

// Scripted is a StreamCompleter that replays canned responses, used by tests
// and by dry runs. Responses are matched by substring of the prompt, in
// order; unmatched prompts fall back to Default.
type Scripted struct {
	Responses []ScriptedResponse
	Default   string
	Prompts   []string // records every prompt seen
}

// ScriptedResponse pairs a prompt substring with the reply to stream.
type ScriptedResponse struct {
	PromptContains string
	Reply          string
}

func (s *Scripted) StreamComplete(ctx context.Context, prompt string, onFragment func(string) error) error {
	s.Prompts = append(s.Prompts, prompt)
	reply := s.Default
	for _, r := range s.Responses {
		if strings.Contains(prompt, r.PromptContains) {
			reply = r.Reply
			break
		}
	}
	if reply == "" {
		return fmt.Errorf("no scripted response for prompt")
	}
	// Stream in small pieces to exercise fragment handling.
	for len(reply) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := 24
		if n > len(reply) {
			n = len(reply)
		}
		if err := onFragment(reply[:n]); err != nil {
			return err
		}
		reply = reply[n:]
	}
	return nil
}

var _ StreamCompleter = (*Scripted)(nil)
