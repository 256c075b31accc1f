package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// CONFIG TESTS
// =============================================================================

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GOOGLE_API_KEY", "GEMINI_API_KEY", "SPRINKLE_MODEL", "SPRINKLE_SHELL", "SPRINKLE_HISTORY"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LLM.Provider != "gemini" {
		t.Errorf("expected Provider=gemini, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.Model != "gemini-2.0-flash" {
		t.Errorf("expected Model=gemini-2.0-flash, got %s", cfg.LLM.Model)
	}
	if cfg.LLM.MaxOutputTokens != 1000 {
		t.Errorf("expected MaxOutputTokens=1000, got %d", cfg.LLM.MaxOutputTokens)
	}
	if cfg.Execution.Shell != "bash" {
		t.Errorf("expected Shell=bash, got %s", cfg.Execution.Shell)
	}
	if cfg.Resolver.Mask != "YOUR ANSWER IS HERE" {
		t.Errorf("unexpected mask %q", cfg.Resolver.Mask)
	}
	if cfg.Resolver.MaxConcurrency != 0 {
		t.Errorf("expected unbounded concurrency, got %d", cfg.Resolver.MaxConcurrency)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.LLM.Model = "gemini-2.5-flash"
	cfg.LLM.APIKey = "secret"
	cfg.Execution.Shell = "zsh"
	cfg.Resolver.MaxConcurrency = 3

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	if string(data) == "" {
		t.Fatal("saved config is empty")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LLM.Model != "gemini-2.5-flash" {
		t.Errorf("expected Model=gemini-2.5-flash, got %s", loaded.LLM.Model)
	}
	if loaded.Execution.Shell != "zsh" {
		t.Errorf("expected Shell=zsh, got %s", loaded.Execution.Shell)
	}
	if loaded.Resolver.MaxConcurrency != 3 {
		t.Errorf("expected MaxConcurrency=3, got %d", loaded.Resolver.MaxConcurrency)
	}
	if loaded.LLM.APIKey != "" {
		t.Errorf("API key must not be persisted, got %q", loaded.LLM.APIKey)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Model != DefaultConfig().LLM.Model {
		t.Errorf("expected default model, got %s", cfg.LLM.Model)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("llm: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("SPRINKLE_MODEL", "gemini-x")
	t.Setenv("SPRINKLE_SHELL", "sh")
	t.Setenv("SPRINKLE_HISTORY", "/tmp/h.db")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	if cfg.LLM.APIKey != "gemini-key" {
		t.Errorf("expected APIKey=gemini-key, got %s", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "gemini-x" || cfg.Execution.Shell != "sh" || cfg.History.Path != "/tmp/h.db" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}

	t.Setenv("GOOGLE_API_KEY", "google-key")
	cfg.applyEnvOverrides()
	if cfg.LLM.APIKey != "google-key" {
		t.Errorf("GOOGLE_API_KEY should take precedence, got %s", cfg.LLM.APIKey)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}

	cfg.LLM.APIKey = "k"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.LLM.Provider = "zai"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid provider error")
	}

	cfg.LLM.Provider = "gemini"
	cfg.Resolver.MaxConcurrency = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected negative concurrency error")
	}
}

func TestGetLLMTimeout(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.GetLLMTimeout(); got != 60*time.Second {
		t.Errorf("expected 60s, got %v", got)
	}
	cfg.LLM.Timeout = "5s"
	if got := cfg.GetLLMTimeout(); got != 5*time.Second {
		t.Errorf("expected 5s, got %v", got)
	}
	cfg.LLM.Timeout = "soon"
	if got := cfg.GetLLMTimeout(); got != 60*time.Second {
		t.Errorf("expected fallback 60s, got %v", got)
	}
}
