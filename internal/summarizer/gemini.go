package summarizer

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiGenerator calls Gemini through the Vertex AI backend.
// Credentials come from Application Default Credentials.
type GeminiGenerator struct {
	client *genai.Client
}

// NewGeminiGenerator creates a Vertex AI client for project and location.
func NewGeminiGenerator(ctx context.Context, project, location string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  project,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return &GeminiGenerator{client: client}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text += part.Text
		}
	}
	return text, nil
}
