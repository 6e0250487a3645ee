package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ollama "github.com/ollama/ollama/api"
)

// OllamaClient streams completions from a local ollama server.
type OllamaClient struct {
	model  string
	client *ollama.Client
}

// NewOllamaClient creates a client for the given model. baseURL may be empty,
// in which case the OLLAMA_HOST environment (or the default local address)
// applies.
func NewOllamaClient(model, baseURL string) (*OllamaClient, error) {
	var client *ollama.Client
	var err error
	if baseURL != "" {
		var u *url.URL
		u, err = url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama base URL %s: %w", baseURL, err)
		}
		client = ollama.NewClient(u, http.DefaultClient)
	} else {
		client, err = ollama.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("could not create ollama client: %w", err)
		}
	}
	return &OllamaClient{
		model:  strings.TrimPrefix(model, "ollama:"),
		client: client,
	}, nil
}

func (c *OllamaClient) StreamComplete(ctx context.Context, prompt string, onFragment func(string) error) error {
	stream := true
	req := &ollama.ChatRequest{
		Model:    c.model,
		Messages: []ollama.Message{{Role: "user", Content: prompt}},
		Stream:   &stream,
		Options: map[string]interface{}{
			"temperature": 0.2,
		},
	}
	err := c.client.Chat(ctx, req, func(res ollama.ChatResponse) error {
		if res.Message.Content == "" {
			return nil
		}
		return onFragment(res.Message.Content)
	})
	if err != nil {
		return fmt.Errorf("ollama chat failed: %w", err)
	}
	return nil
}

var _ StreamCompleter = (*OllamaClient)(nil)
