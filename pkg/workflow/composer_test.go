package workflow

import (
	"context"
	"strings"
	"testing"

	"support-rag-be/pkg/llm"
	"support-rag-be/pkg/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// promptCapturingProvider records the last prompt it was given.
type promptCapturingProvider struct {
	lastPrompt string
	reply      string
}

func (p *promptCapturingProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	p.lastPrompt = prompt
	return p.reply, nil
}

func (p *promptCapturingProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.reply, nil
}

func TestRAGComposer_ContextOrderPreserved(t *testing.T) {
	retriever := &countingRetriever{passages: []retrieval.Passage{
		{Content: "first passage", Score: 0.9},
		{Content: "second passage", Score: 0.8},
		{Content: "third passage", Score: 0.7},
	}}
	provider := &promptCapturingProvider{reply: "answer"}
	composer := NewRAGComposer(retriever, provider, 4, 0.5)

	answer, err := composer.Compose(context.Background(), "what is this?")
	require.NoError(t, err)
	assert.Equal(t, "answer", answer)

	first := strings.Index(provider.lastPrompt, "first passage")
	second := strings.Index(provider.lastPrompt, "second passage")
	third := strings.Index(provider.lastPrompt, "third passage")
	require.NotEqual(t, -1, first)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
	assert.Contains(t, provider.lastPrompt, "what is this?")
}

func TestRAGComposer_EmptyRetrievalStillAnswers(t *testing.T) {
	retriever := &countingRetriever{passages: nil}
	provider := &promptCapturingProvider{reply: "I don't know."}
	composer := NewRAGComposer(retriever, provider, 4, 0.5)

	answer, err := composer.Compose(context.Background(), "obscure question")
	require.NoError(t, err)
	assert.Equal(t, "I don't know.", answer)
	assert.Equal(t, 1, retriever.calls)
}

func TestRAGComposer_NoIndexPropagates(t *testing.T) {
	retriever := &countingRetriever{err: retrieval.ErrNoIndex}
	provider := &promptCapturingProvider{reply: "never"}
	composer := NewRAGComposer(retriever, provider, 4, 0.5)

	_, err := composer.Compose(context.Background(), "anything")
	assert.ErrorIs(t, err, retrieval.ErrNoIndex)
	assert.Empty(t, provider.lastPrompt, "no generation call without an index")
}
