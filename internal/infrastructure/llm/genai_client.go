package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GenAIClient generates clinical explanations using Google's Gemini API.
// It implements port.TextGenerator.
type GenAIClient struct {
	client *genai.Client
	model  string
}

// NewGenAIClient creates a text generation client. The API key is injected
// via environment, never stored in source or logs.
func NewGenAIClient(ctx context.Context, apiKey, model string) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("genai api key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GenAIClient{
		client: client,
		model:  model,
	}, nil
}

// Generate produces a plain-language narrative for the given prompt.
func (c *GenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("genai generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("genai returned empty response")
	}

	return text, nil
}
