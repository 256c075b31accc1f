package perception

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	deadline bool

	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	_, f.deadline = ctx.Deadline()
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGeminiClient_CompleteWithSystem(t *testing.T) {
	fake := &fakeModels{resp: textResponse("ls -la")}
	client := newGeminiClient(fake, DefaultGeminiConfig("key"))

	out, err := client.CompleteWithSystem(context.Background(), "be a shell", "{{list everything}}")
	require.NoError(t, err)
	assert.Equal(t, "ls -la", out)

	assert.Equal(t, "gemini-2.0-flash", fake.model)
	require.Len(t, fake.contents, 1)
	assert.Equal(t, "{{list everything}}", fake.contents[0].Parts[0].Text)
	require.NotNil(t, fake.config.SystemInstruction)
	assert.Equal(t, "be a shell", fake.config.SystemInstruction.Parts[0].Text)
	require.NotNil(t, fake.config.Temperature)
	assert.Equal(t, float32(0), *fake.config.Temperature)
	assert.Equal(t, int32(1000), fake.config.MaxOutputTokens)
	assert.True(t, fake.deadline, "configured timeout should bound the request")
}

func TestGeminiClient_NoTimeout(t *testing.T) {
	fake := &fakeModels{resp: textResponse("pwd")}
	client := newGeminiClient(fake, GeminiConfig{Model: "gemini-x"})

	_, err := client.CompleteWithSystem(context.Background(), "", "where am I")
	require.NoError(t, err)
	assert.False(t, fake.deadline)
	assert.Nil(t, fake.config.SystemInstruction)
	assert.Equal(t, "gemini-x", client.Model())
}

func TestGeminiClient_Errors(t *testing.T) {
	t.Run("transport", func(t *testing.T) {
		boom := errors.New("quota exceeded")
		client := newGeminiClient(&fakeModels{err: boom}, GeminiConfig{Timeout: time.Second})
		_, err := client.CompleteWithSystem(context.Background(), "s", "u")
		require.ErrorIs(t, err, boom)
	})

	t.Run("no candidates", func(t *testing.T) {
		client := newGeminiClient(&fakeModels{resp: &genai.GenerateContentResponse{}}, GeminiConfig{})
		_, err := client.CompleteWithSystem(context.Background(), "s", "u")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no candidates")
	})

	t.Run("blocked", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
		}
		client := newGeminiClient(&fakeModels{resp: resp}, GeminiConfig{})
		_, err := client.CompleteWithSystem(context.Background(), "s", "u")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "blocked")
	})
}

func TestNewGeminiClientWithConfig_RequiresKey(t *testing.T) {
	_, err := NewGeminiClientWithConfig(context.Background(), GeminiConfig{})
	require.Error(t, err)
}
