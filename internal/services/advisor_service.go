package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"finmemory/internal/llm"
	"finmemory/internal/models"
)

var (
	ErrAdviceUnavailable = errors.New("advice generation temporarily unavailable")
)

type advisorService struct {
	memory    MemoryServiceInterface
	prompts   PromptBuilderInterface
	parser    ReplyParserInterface
	generator llm.TextGenerator
	breaker   CircuitBreakerInterface
	metrics   MetricsRecorderInterface
}

// NewAdvisorService creates a new AdvisorServiceInterface instance
func NewAdvisorService(
	memory MemoryServiceInterface,
	prompts PromptBuilderInterface,
	parser ReplyParserInterface,
	generator llm.TextGenerator,
	breaker CircuitBreakerInterface,
	metrics MetricsRecorderInterface,
) AdvisorServiceInterface {
	return &advisorService{
		memory:    memory,
		prompts:   prompts,
		parser:    parser,
		generator: generator,
		breaker:   breaker,
		metrics:   metrics,
	}
}

// GenerateAdvice assembles the prompt from the user's financial memory,
// calls the generation backend through the circuit breaker and parses the
// reply into structured action items.
func (s *advisorService) GenerateAdvice(ctx context.Context, userID uuid.UUID, extraContext string) (*models.AdviceResult, error) {
	start := time.Now()

	if s.breaker.IsOpen() {
		s.metrics.ObserveAdviceRequest("circuit_open", time.Since(start))
		return nil, ErrAdviceUnavailable
	}

	memory, err := s.memory.GetFinancialMemory(userID, false)
	if err != nil {
		s.metrics.ObserveAdviceRequest("memory_error", time.Since(start))
		return nil, err
	}

	prompt := s.prompts.BuildSystemPrompt(memory, extraContext)
	s.metrics.ObservePromptLength(len(prompt))

	reply, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		s.breaker.RecordFailure()
		s.metrics.ObserveAdviceRequest("generation_error", time.Since(start))
		return nil, fmt.Errorf("failed to generate advice: %w", err)
	}
	s.breaker.RecordSuccess()

	items := s.parser.ParseActionableItems(reply)
	s.metrics.ObserveActionItemsParsed(len(items))
	s.metrics.ObserveAdviceRequest("success", time.Since(start))

	slog.Info("advice generated",
		"user_id", userID,
		"prompt_bytes", len(prompt),
		"action_items", len(items))

	return &models.AdviceResult{
		Reply:       reply,
		Items:       items,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
