package llm

import (
	"context"
	"errors"
)

// ErrGenerationDisabled is returned when the generation backend is
// switched off by configuration.
var ErrGenerationDisabled = errors.New("text generation is disabled")

// DisabledGenerator satisfies TextGenerator for deployments without a
// configured generation backend. Every call fails fast.
type DisabledGenerator struct{}

func (DisabledGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return "", ErrGenerationDisabled
}
