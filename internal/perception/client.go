// Package perception turns natural-language placeholder fragments into literal shell
// command fragments using an LLM. LLMClient is the raw completion transport (Gemini in
// production); CommandGenerator layers the bash-generator instructions on top of it and is
// what the resolver talks to.
package perception

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// LLMClient defines the interface for LLM providers.
type LLMClient interface {
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Generator resolves one natural-language fragment into a literal command fragment.
// surrounding is the full prompt with the fragment masked out; it may be empty.
type Generator interface {
	Generate(ctx context.Context, fragment, surrounding string) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, fragment, surrounding string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, fragment, surrounding string) (string, error) {
	return f(ctx, fragment, surrounding)
}

// ErrEmptyResponse is returned when the model answers with no text at all.
var ErrEmptyResponse = errors.New("empty response from model")

// CommandGenerator implements Generator over any LLMClient.
type CommandGenerator struct {
	client LLMClient
}

// NewCommandGenerator creates a generator that prompts client as a bash command generator.
func NewCommandGenerator(client LLMClient) *CommandGenerator {
	return &CommandGenerator{client: client}
}

// Generate asks the model for the command fragment that implements fragment.
func (g *CommandGenerator) Generate(ctx context.Context, fragment, surrounding string) (string, error) {
	out, err := g.client.CompleteWithSystem(ctx, BuildSystemPrompt(surrounding), fragment)
	if err != nil {
		return "", fmt.Errorf("generate %q: %w", fragment, err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("generate %q: %w", fragment, ErrEmptyResponse)
	}
	return out, nil
}
