// Package extractor splits a chat turn into attached context and the actual
// instruction. A turn may carry multiple ordered text fragments; everything
// before the last fragment is context, the last fragment alone is the ask.
package extractor

import "strings"

// Content is the split result for one chat turn.
type Content struct {
	ContextContent  string
	UserInstruction string
	FullContent     string
}

// Extract is a pure function of the message fragments. With a single
// fragment there is no attached context: the fragment is both the context of
// the request and the instruction.
func Extract(fragments []string) Content {
	switch len(fragments) {
	case 0:
		return Content{}
	case 1:
		return Content{
			ContextContent:  fragments[0],
			UserInstruction: fragments[0],
			FullContent:     fragments[0],
		}
	}
	context := strings.Join(fragments[:len(fragments)-1], "\n\n")
	instruction := fragments[len(fragments)-1]
	return Content{
		ContextContent:  context,
		UserInstruction: instruction,
		FullContent:     context + "\n\n" + instruction,
	}
}
