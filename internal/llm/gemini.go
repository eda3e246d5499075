// Package llm wraps the Google Gen AI client behind a small text-in,
// text-out interface so services can be tested without network access.
package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const DefaultModelName = "gemini-2.0-flash"

// TextGenerator is the minimal surface the advisor needs from a
// generation backend.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gen AI client. Credentials and backend
// selection (Gemini Dev vs Vertex) come from the standard environment
// variables the SDK reads.
func NewGeminiClient(ctx context.Context, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if model == "" {
		model = DefaultModelName
	}

	return &GeminiClient{client: client, model: model}, nil
}

// GenerateText sends a single-turn user prompt and returns the reply text
// with any surrounding Markdown code fences stripped.
func (g *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return StripCodeFences(resp.Text()), nil
}

// StripCodeFences removes a leading ``` or ```markdown fence and a
// trailing ``` fence when the model wraps its reply despite instructions.
func StripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "```") {
		if idx := strings.Index(trimmed, "\n"); idx >= 0 {
			trimmed = trimmed[idx+1:]
		} else {
			trimmed = strings.TrimPrefix(trimmed, "```")
		}
	}
	if strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimSuffix(trimmed, "```")
	}

	return strings.TrimSpace(trimmed)
}
