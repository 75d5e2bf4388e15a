package workflow

import (
	"context"
	"fmt"
	"strings"

	"support-rag-be/internal/constant"
	"support-rag-be/pkg/llm"
)

// Sentiment is a closed two-value label. There is no default: a model
// reply outside the label set is a classification error, never a
// silent fallback to the answer path.
type Sentiment string

const (
	SentimentPositive Sentiment = constant.SentimentLabelPositive
	SentimentNegative Sentiment = constant.SentimentLabelNegative
)

// SentimentClassifier labels a single query.
type SentimentClassifier interface {
	Classify(ctx context.Context, query string) (Sentiment, error)
}

// LLMClassifier implements SentimentClassifier on top of any LLMProvider.
type LLMClassifier struct {
	provider    llm.LLMProvider
	temperature float64
}

func NewLLMClassifier(provider llm.LLMProvider, temperature float64) *LLMClassifier {
	return &LLMClassifier{
		provider:    provider,
		temperature: temperature,
	}
}

func (c *LLMClassifier) Classify(ctx context.Context, query string) (Sentiment, error) {
	prompt := fmt.Sprintf(constant.SentimentPromptTemplate, query)

	raw, err := c.provider.Generate(ctx, prompt, llm.WithTemperature(c.temperature))
	if err != nil {
		return "", fmt.Errorf("sentiment generation failed: %w", err)
	}

	label, err := parseSentiment(raw)
	if err != nil {
		return "", err
	}
	return label, nil
}

// parseSentiment normalizes the raw model output and maps it onto the
// closed label set. Quoting and trailing punctuation are tolerated,
// anything beyond that is rejected.
func parseSentiment(raw string) (Sentiment, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.Trim(normalized, "'\"`.")

	switch Sentiment(normalized) {
	case SentimentPositive:
		return SentimentPositive, nil
	case SentimentNegative:
		return SentimentNegative, nil
	default:
		return "", fmt.Errorf("unrecognized sentiment label %q", raw)
	}
}
