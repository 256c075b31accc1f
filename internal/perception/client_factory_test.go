package perception

import (
	"context"
	"testing"

	"sprinkle/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientFromConfig_MissingKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.APIKey = ""

	client, err := NewClientFromConfig(context.Background(), cfg)
	require.ErrorIs(t, err, config.ErrMissingAPIKey)
	assert.Nil(t, client)
}

func TestNewClientFromConfig_UnknownProvider(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.APIKey = "test-key"
	cfg.LLM.Provider = "zai"

	_, err := NewClientFromConfig(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zai")
}

func TestNewClientFromConfig_Gemini(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.APIKey = "test-key"
	cfg.LLM.Model = "gemini-2.5-flash"

	client, err := NewClientFromConfig(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	gemini, ok := client.underlying.(*GeminiClient)
	require.True(t, ok, "tracing wraps the provider client")
	assert.Equal(t, "gemini-2.5-flash", gemini.Model())
	assert.Zero(t, client.Calls())
}
