package config

import (
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "ollama" || cfg.Model == "" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxRetries != 10 {
		t.Errorf("MaxRetries = %d, want 10", cfg.MaxRetries)
	}
	if cfg.PromptCharLimit != 8000 {
		t.Errorf("PromptCharLimit = %d, want 8000", cfg.PromptCharLimit)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Provider = "openai"
	cfg.Model = "gpt-4o-mini"
	cfg.MaxRetries = 3
	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Provider != "openai" || loaded.Model != "gpt-4o-mini" || loaded.MaxRetries != 3 {
		t.Errorf("roundtrip mismatch: %+v", loaded)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TEDDY_PROVIDER", "openai")
	t.Setenv("TEDDY_MODEL", "gpt-4o")
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "openai" || cfg.Model != "gpt-4o" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}
