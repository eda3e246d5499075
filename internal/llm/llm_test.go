package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type fakeGenerator struct {
	GenerateTextFunc func(ctx context.Context, prompt string) (string, error)
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f.GenerateTextFunc(ctx, prompt)
}

type LLMTestSuite struct {
	suite.Suite
}

func TestLLMTestSuite(t *testing.T) {
	suite.Run(t, new(LLMTestSuite))
}

func (s *LLMTestSuite) TestStripCodeFences() {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "no fences", input: "Сократите расходы", expected: "Сократите расходы"},
		{name: "plain fences", input: "```\n1. Пункт\n```", expected: "1. Пункт"},
		{name: "language tagged fence", input: "```markdown\n## Раздел\n- пункт\n```", expected: "## Раздел\n- пункт"},
		{name: "leading fence only", input: "```\nтекст без закрытия", expected: "текст без закрытия"},
		{name: "trailing fence only", input: "текст\n```", expected: "текст"},
		{name: "surrounding whitespace", input: "  \n```\nтекст\n```\n  ", expected: "текст"},
		{name: "fence without newline", input: "```", expected: ""},
		{name: "empty", input: "", expected: ""},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, StripCodeFences(tc.input))
		})
	}
}

func (s *LLMTestSuite) TestDisabledGenerator_FailsFast() {
	var gen TextGenerator = DisabledGenerator{}

	reply, err := gen.GenerateText(context.Background(), "любой запрос")
	s.Empty(reply)
	s.ErrorIs(err, ErrGenerationDisabled)
}

func (s *LLMTestSuite) TestWithTimeout_NonPositiveReturnsInner() {
	inner := &fakeGenerator{}

	s.Same(TextGenerator(inner), WithTimeout(inner, 0))
	s.Same(TextGenerator(inner), WithTimeout(inner, -time.Second))
}

func (s *LLMTestSuite) TestWithTimeout_AttachesDeadline() {
	inner := &fakeGenerator{
		GenerateTextFunc: func(ctx context.Context, prompt string) (string, error) {
			deadline, ok := ctx.Deadline()
			s.True(ok)
			s.WithinDuration(time.Now().Add(time.Minute), deadline, 5*time.Second)
			return "ответ", nil
		},
	}

	gen := WithTimeout(inner, time.Minute)
	reply, err := gen.GenerateText(context.Background(), "запрос")
	s.NoError(err)
	s.Equal("ответ", reply)
}

func (s *LLMTestSuite) TestWithTimeout_CancelsSlowCalls() {
	inner := &fakeGenerator{
		GenerateTextFunc: func(ctx context.Context, prompt string) (string, error) {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Second):
				return "слишком поздно", nil
			}
		},
	}

	gen := WithTimeout(inner, 10*time.Millisecond)
	_, err := gen.GenerateText(context.Background(), "запрос")
	s.ErrorIs(err, context.DeadlineExceeded)
}
