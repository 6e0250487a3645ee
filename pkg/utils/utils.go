package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GenerateRequestHash generates a SHA256 hash for a given instruction text.
func GenerateRequestHash(instructions string) string {
	hash := sha256.Sum256([]byte(instructions))
	return hex.EncodeToString(hash[:])
}

// TruncateForPrompt caps text at maxChars, appending a truncation marker when
// content was dropped. Prompts carry a fixed character budget so a large file
// never blows out a completion request.
func TruncateForPrompt(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	return text[:maxChars] + "\n... (truncated)"
}

// Capitalize upper-cases the first word of a progress line.
// Using golang.org/x/text/cases since strings.Title is deprecated.
func Capitalize(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return s
	}
	caser := cases.Title(language.English)
	fields[0] = caser.String(fields[0])
	return strings.Join(fields, " ")
}
