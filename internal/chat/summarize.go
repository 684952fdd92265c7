package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosuda/vendia/internal/domain"
)

// DefaultSummarizeThreshold is the token budget above which user input is
// compressed before it reaches the agent.
const DefaultSummarizeThreshold = 256

// EstimateTokens approximates the token count of text as ceil(len/4).
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// Summarizer conditionally compresses long input through the model.
type Summarizer struct {
	generator domain.Generator
	threshold int
}

func NewSummarizer(generator domain.Generator, threshold int) *Summarizer {
	if threshold <= 0 {
		threshold = DefaultSummarizeThreshold
	}
	return &Summarizer{generator: generator, threshold: threshold}
}

// SummarizeIfNeeded returns (summary, true) when text exceeds the threshold
// and was compressed, or ("", false) when the original text should be used
// unchanged (empty, whitespace-only, or short input). A model failure here is
// a provider failure and aborts the request like any other generation error.
func (s *Summarizer) SummarizeIfNeeded(ctx context.Context, text string) (string, bool, error) {
	if strings.TrimSpace(text) == "" || EstimateTokens(text) <= s.threshold {
		return "", false, nil
	}

	summary, err := s.generator.Generate(ctx, summarizeInstruction, text)
	if err != nil {
		return "", false, fmt.Errorf("chat.Summarizer.SummarizeIfNeeded: %w", &domain.ProviderError{Provider: "model", Err: err})
	}

	return summary, true, nil
}
