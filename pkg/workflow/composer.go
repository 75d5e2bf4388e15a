package workflow

import (
	"context"
	"fmt"
	"strings"

	"support-rag-be/internal/constant"
	"support-rag-be/pkg/llm"
	"support-rag-be/pkg/retrieval"
)

// AnswerComposer produces a grounded answer for a query.
type AnswerComposer interface {
	Compose(ctx context.Context, query string) (string, error)
}

// RAGComposer retrieves the most relevant passages and asks the model
// to answer from them.
type RAGComposer struct {
	retriever   retrieval.Retriever
	provider    llm.LLMProvider
	topK        int
	temperature float64
}

func NewRAGComposer(retriever retrieval.Retriever, provider llm.LLMProvider, topK int, temperature float64) *RAGComposer {
	if topK <= 0 {
		topK = 4
	}
	return &RAGComposer{
		retriever:   retriever,
		provider:    provider,
		topK:        topK,
		temperature: temperature,
	}
}

func (c *RAGComposer) Compose(ctx context.Context, query string) (string, error) {
	passages, err := c.retriever.Retrieve(ctx, query, c.topK)
	if err != nil {
		// ErrNoIndex included: no generation call happens without an index
		return "", err
	}

	// An existing index with no relevant passages still goes to the model,
	// which answers "I don't know" from the empty context.
	contextBlock := buildContext(passages)
	prompt := fmt.Sprintf(constant.AnswerPromptTemplate, contextBlock, query)

	answer, err := c.provider.Generate(ctx, prompt, llm.WithTemperature(c.temperature))
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// buildContext concatenates passages in retrieval order, separated by
// blank lines.
func buildContext(passages []retrieval.Passage) string {
	parts := make([]string, len(passages))
	for i, p := range passages {
		parts[i] = p.Content
	}
	return strings.Join(parts, "\n\n")
}
