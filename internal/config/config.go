package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned by Validate when no service credential is configured.
var ErrMissingAPIKey = errors.New("missing google genai (gemini) api key. Please set GOOGLE_API_KEY environment variable with a valid gemini api key")

// Config holds all sprinkle configuration.
type Config struct {
	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// Placeholder resolution
	Resolver ResolverConfig `yaml:"resolver"`

	// Execution settings
	Execution ExecutionConfig `yaml:"execution"`

	// Command history
	History HistoryConfig `yaml:"history"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the text-generation backend.
type LLMConfig struct {
	Provider        string  `yaml:"provider"` // gemini
	APIKey          string  `yaml:"api_key,omitempty"`
	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
	Timeout         string  `yaml:"timeout"`
}

// ResolverConfig configures how placeholders are sent to the model.
type ResolverConfig struct {
	// Mask replaces the placeholder being resolved inside the context prompt.
	Mask string `yaml:"mask"`
	// IncludeContext sends the masked full prompt alongside each placeholder.
	IncludeContext bool `yaml:"include_context"`
	// MaxConcurrency caps in-flight requests; 0 means one goroutine per placeholder.
	MaxConcurrency int `yaml:"max_concurrency"`
}

// ExecutionConfig configures the dispatch step.
type ExecutionConfig struct {
	// Shell is looked up on PATH and run as `<shell> -c <command>`.
	Shell string `yaml:"shell"`
}

// HistoryConfig configures the sqlite run history.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`  // debug, info, warn, error
	Format     string          `yaml:"format"` // json, text
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:        "gemini",
			Model:           "gemini-2.0-flash",
			Temperature:     0,
			MaxOutputTokens: 1000,
			Timeout:         "60s",
		},
		Resolver: ResolverConfig{
			Mask:           "YOUR ANSWER IS HERE",
			IncludeContext: true,
			MaxConcurrency: 0,
		},
		Execution: ExecutionConfig{
			Shell: "bash",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    defaultHistoryPath(),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".sprinkle", "config.yaml")
	}
	return filepath.Join(dir, "sprinkle", "config.yaml")
}

func defaultHistoryPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".sprinkle", "history.db")
	}
	return filepath.Join(dir, "sprinkle", "history.db")
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults; environment overrides are applied either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file. The API key is never written.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := *c
	out.LLM.APIKey = ""
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// GOOGLE_API_KEY wins over GEMINI_API_KEY, matching the genai SDK.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if model := os.Getenv("SPRINKLE_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if shell := os.Getenv("SPRINKLE_SHELL"); shell != "" {
		c.Execution.Shell = shell
	}
	if path := os.Getenv("SPRINKLE_HISTORY"); path != "" {
		c.History.Path = path
	}
}

// GetLLMTimeout returns the per-request LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// ValidProviders lists all supported LLM providers.
var ValidProviders = []string{"gemini"}

// Validate checks what resolution needs: a known provider and a credential.
func (c *Config) Validate() error {
	validProvider := false
	for _, p := range ValidProviders {
		if c.LLM.Provider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid LLM provider: %s (valid: %v)", c.LLM.Provider, ValidProviders)
	}
	if c.LLM.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Resolver.MaxConcurrency < 0 {
		return fmt.Errorf("resolver.max_concurrency must be >= 0, got %d", c.Resolver.MaxConcurrency)
	}
	return nil
}
