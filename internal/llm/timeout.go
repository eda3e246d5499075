package llm

import (
	"context"
	"time"
)

type timeoutGenerator struct {
	inner   TextGenerator
	timeout time.Duration
}

// WithTimeout caps every generation call at d. A non-positive d returns
// the generator unchanged.
func WithTimeout(inner TextGenerator, d time.Duration) TextGenerator {
	if d <= 0 {
		return inner
	}
	return &timeoutGenerator{inner: inner, timeout: d}
}

func (g *timeoutGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.inner.GenerateText(ctx, prompt)
}
