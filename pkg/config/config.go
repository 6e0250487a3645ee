package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the runtime settings for teddy. It is loaded from
// .teddy/config.json in the workspace root, with environment overrides.
type Config struct {
	Provider        string `json:"provider"`          // "ollama" or "openai"
	Model           string `json:"model"`             // model name for code generation
	BaseURL         string `json:"base_url"`          // provider endpoint, empty for provider default
	MaxRetries      int    `json:"max_retries"`       // verification attempt ceiling
	SkipPrompt      bool   `json:"skip_prompt"`       // apply changes without confirmation
	MonitorAddr     string `json:"monitor_addr"`      // listen address for the web monitor, empty = disabled
	PromptCharLimit int    `json:"prompt_char_limit"` // character budget for file content embedded in prompts
}

const (
	configDir  = ".teddy"
	configFile = "config.json"
)

// DefaultConfig returns a config with workable defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:        "ollama",
		Model:           "qwen2.5-coder",
		MaxRetries:      10,
		PromptCharLimit: 8000,
	}
}

// Load reads the workspace config, falling back to defaults when the file
// does not exist.
func Load(workspaceRoot string) (*Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(workspaceRoot, configDir, configFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 10
	}
	if cfg.PromptCharLimit <= 0 {
		cfg.PromptCharLimit = 8000
	}
	cfg.applyEnv()
	return cfg, nil
}

// Save writes the config back to the workspace.
func (c *Config) Save(workspaceRoot string) error {
	dir := filepath.Join(workspaceRoot, configDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, configFile), data, 0644)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TEDDY_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("TEDDY_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("TEDDY_BASE_URL"); v != "" {
		c.BaseURL = v
	}
}
