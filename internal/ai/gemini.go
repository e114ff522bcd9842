package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// TextGenerator produces a completion for a prompt. The moderation,
// similarity, and grouping components all speak to the model through this
// interface so tests can substitute a canned generator.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator is a TextGenerator backed by one Google Gemini model.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator dials the Gemini API with the given key and binds the
// generator to a model name.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if model == "" {
		return nil, errors.New("gemini model name is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("dial gemini: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// WithModel returns a generator sharing the same client but bound to a
// different model, e.g. the pro model for similarity judgments.
func (g *GeminiGenerator) WithModel(model string) *GeminiGenerator {
	return &GeminiGenerator{client: g.client, model: model}
}

// Generate runs the prompt through the bound model and returns the trimmed
// text of the first candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.GenerativeModel(g.model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// Close releases the underlying API client.
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}
