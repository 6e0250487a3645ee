package config

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// GetAPIKey resolves the API key for a provider, checking the environment
// first and prompting on the terminal (without echo) as a last resort.
// Local providers such as ollama need no key.
func GetAPIKey(provider string) (string, error) {
	switch strings.ToLower(provider) {
	case "ollama":
		return "", nil
	case "openai":
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			return key, nil
		}
	}
	if key := os.Getenv("TEDDY_API_KEY"); key != "" {
		return key, nil
	}
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("no API key found for provider %s (set TEDDY_API_KEY)", provider)
	}
	fmt.Printf("Enter API key for %s: ", provider)
	byteKey, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	key := strings.TrimSpace(string(byteKey))
	if key == "" {
		return "", fmt.Errorf("empty API key for provider %s", provider)
	}
	return key, nil
}
