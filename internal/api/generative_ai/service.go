// Package generativeAI wraps the Gemini client used for plan generation.
package generativeAI

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/Alik192/AI-Travel-Planner/internal/types"
)

const defaultModel = "gemini-2.0-flash"

// Generator produces one text completion for one prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

var _ Generator = (*AIClient)(nil)

type AIClient struct {
	client *genai.Client
	model  string
}

// NewAIClient builds a Gemini client. A missing API key is a recoverable
// configuration error, not a crash: the caller decides how to surface it.
func NewAIClient(ctx context.Context, apiKey string) (*AIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not set: %w", types.ErrConfig)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &AIClient{
		client: client,
		model:  defaultModel,
	}, nil
}

func (ai *AIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.5),
	})
	if err != nil {
		return "", fmt.Errorf("content generation failed: %v: %w", err, types.ErrGeneration)
	}
	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("model returned no content: %w", types.ErrGeneration)
	}
	return text, nil
}
