package llm

import (
	"fmt"
	"strings"

	"github.com/teddycode/teddy/pkg/config"
)

// NewFromConfig builds the provider adapter the config names.
func NewFromConfig(cfg *config.Config) (StreamCompleter, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "ollama":
		return NewOllamaClient(cfg.Model, cfg.BaseURL)
	case "openai":
		key, err := config.GetAPIKey(cfg.Provider)
		if err != nil {
			return nil, err
		}
		return NewOpenAIClient(cfg.Model, cfg.BaseURL, key), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
