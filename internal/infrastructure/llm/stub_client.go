package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// StubClient implements port.TextGenerator as a stub for development.
// It is used when no GenAI API key is configured, so analyze and explain
// flows stay usable in local environments.
type StubClient struct {
	logger *slog.Logger
}

// NewStubClient creates a new stub text generation client.
func NewStubClient(logger *slog.Logger) *StubClient {
	return &StubClient{logger: logger}
}

// Generate returns an error so the caller falls back to its canned narrative.
func (c *StubClient) Generate(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("stub text generation requested",
		slog.Int("prompt_length", len(prompt)),
	)

	return "", fmt.Errorf("text generation not configured")
}
