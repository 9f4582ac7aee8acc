package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the aicr configuration.
type Config struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Format   string `json:"format"`

	// TokenBudget bounds the estimated size of one diff chunk.
	TokenBudget int `json:"tokenBudget"`
	// CharBudget bounds the relevant-definitions bundle per chunk.
	CharBudget int `json:"charBudget"`
	// MaxComments caps comments requested from the model per chunk.
	MaxComments int `json:"maxComments"`
	// MaxHotspots caps graph hotspots listed in a prompt.
	MaxHotspots int `json:"maxHotspots"`

	// Fuzzy enables fuzzy duplicate detection and relocation.
	Fuzzy bool `json:"fuzzy"`
	// Enhance rewrites comment locations to high-confidence matches.
	Enhance bool `json:"enhance"`
	// MinConfidence is the relocation confidence floor.
	MinConfidence float64 `json:"minConfidence"`
	// MaxMatches is the number of relocation candidates retained.
	MaxMatches int `json:"maxMatches"`

	Cache   CacheConfig   `json:"cache"`
	Privacy PrivacyConfig `json:"privacy"`
}

// CacheConfig controls response caching.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// PrivacyConfig controls redaction of prompt payloads.
type PrivacyConfig struct {
	RedactSecrets bool `json:"redactSecrets"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider:      "anthropic",
		Model:         "claude-sonnet-4-20250514",
		Format:        "text",
		TokenBudget:   1100,
		CharBudget:    4000,
		MaxComments:   20,
		MaxHotspots:   5,
		Fuzzy:         true,
		Enhance:       false,
		MinConfidence: 0.6,
		MaxMatches:    5,
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
		},
	}
}

// Validate rejects configurations that would only fail later, mid-review.
func (c Config) Validate() error {
	if c.TokenBudget <= 0 {
		return fmt.Errorf("tokenBudget must be positive, got %d", c.TokenBudget)
	}
	if c.CharBudget <= 0 {
		return fmt.Errorf("charBudget must be positive, got %d", c.CharBudget)
	}
	if c.MaxComments <= 0 {
		return fmt.Errorf("maxComments must be positive, got %d", c.MaxComments)
	}
	if c.MinConfidence <= 0 || c.MinConfidence > 1 {
		return fmt.Errorf("minConfidence must be in (0,1], got %v", c.MinConfidence)
	}
	if c.MaxMatches <= 0 {
		return fmt.Errorf("maxMatches must be positive, got %d", c.MaxMatches)
	}
	return nil
}

// ConfigDir returns the platform-appropriate config directory for aicr.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "aicr"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "aicr"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "aicr"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "aicr"), nil
	default:
		return filepath.Join(home, ".config", "aicr"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads the config file. A missing file yields the zero Config.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config: defaults <- file <- env <- overrides.
// API keys in a local .env file are exported first.
func Load(overrides map[string]string) (Config, error) {
	_ = godotenv.Load() // missing .env is fine

	cfg := Default()
	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.TokenBudget > 0 {
		dst.TokenBudget = src.TokenBudget
	}
	if src.CharBudget > 0 {
		dst.CharBudget = src.CharBudget
	}
	if src.MaxComments > 0 {
		dst.MaxComments = src.MaxComments
	}
	if src.MaxHotspots > 0 {
		dst.MaxHotspots = src.MaxHotspots
	}
	if src.MinConfidence > 0 {
		dst.MinConfidence = src.MinConfidence
	}
	if src.MaxMatches > 0 {
		dst.MaxMatches = src.MaxMatches
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	dst.Cache.Enabled = src.Cache.Enabled || dst.Cache.Enabled
	dst.Fuzzy = src.Fuzzy || dst.Fuzzy
	dst.Enhance = src.Enhance || dst.Enhance
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("AICR_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("AICR_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("AICR_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("AICR_TOKEN_BUDGET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TokenBudget = n
		}
	}
	if v := os.Getenv("AICR_CHAR_BUDGET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CharBudget = n
		}
	}
	if v := os.Getenv("AICR_MIN_CONFIDENCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MinConfidence = f
		}
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	for key, v := range overrides {
		if v == "" {
			continue
		}
		_ = SetField(cfg, key, v)
	}
}

// SetField sets a single config field by key name.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "format":
		cfg.Format = value
	case "tokenBudget":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("tokenBudget must be an integer: %w", err)
		}
		cfg.TokenBudget = n
	case "charBudget":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("charBudget must be an integer: %w", err)
		}
		cfg.CharBudget = n
	case "maxComments":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxComments must be an integer: %w", err)
		}
		cfg.MaxComments = n
	case "maxHotspots":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxHotspots must be an integer: %w", err)
		}
		cfg.MaxHotspots = n
	case "fuzzy":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("fuzzy must be a boolean: %w", err)
		}
		cfg.Fuzzy = b
	case "enhance":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("enhance must be a boolean: %w", err)
		}
		cfg.Enhance = b
	case "minConfidence":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("minConfidence must be a number: %w", err)
		}
		cfg.MinConfidence = f
	case "maxMatches":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxMatches must be an integer: %w", err)
		}
		cfg.MaxMatches = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
