package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate_RejectsBadBudgets(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero token budget", func(c *Config) { c.TokenBudget = 0 }},
		{"negative char budget", func(c *Config) { c.CharBudget = -1 }},
		{"zero max comments", func(c *Config) { c.MaxComments = 0 }},
		{"confidence above one", func(c *Config) { c.MinConfidence = 1.5 }},
		{"zero max matches", func(c *Config) { c.MaxMatches = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestLoad_FileAndEnvMerge(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("AICR_MODEL", "env-model")

	cfgDir := filepath.Join(dir, "aicr")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	fileCfg := map[string]any{
		"provider":    "ollama",
		"model":       "file-model",
		"tokenBudget": 500,
	}
	data, _ := json.Marshal(fileCfg)
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(map[string]string{"format": "json"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "ollama" {
		t.Errorf("Provider = %q, want ollama (from file)", cfg.Provider)
	}
	if cfg.Model != "env-model" {
		t.Errorf("Model = %q, want env-model (env beats file)", cfg.Model)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json (flag beats all)", cfg.Format)
	}
	if cfg.TokenBudget != 500 {
		t.Errorf("TokenBudget = %d, want 500", cfg.TokenBudget)
	}
	if cfg.CharBudget != Default().CharBudget {
		t.Errorf("CharBudget = %d, want default", cfg.CharBudget)
	}
}

func TestLoad_RejectsInvalidOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, err := Load(map[string]string{"tokenBudget": "-10"}); err == nil {
		t.Error("expected error for negative budget override")
	}
}

func TestSetField(t *testing.T) {
	cfg := Default()
	if err := SetField(&cfg, "fuzzy", "false"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if cfg.Fuzzy {
		t.Error("Fuzzy should be false")
	}
	if err := SetField(&cfg, "bogus", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := SetField(&cfg, "maxMatches", "notanumber"); err == nil {
		t.Error("expected error for non-integer maxMatches")
	}
}
