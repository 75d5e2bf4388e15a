package workflow

import (
	"context"
	"errors"
	"testing"

	"support-rag-be/internal/constant"
	"support-rag-be/pkg/llm"
	"support-rag-be/pkg/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider returns canned replies in order and counts calls.
type scriptedProvider struct {
	replies []string
	calls   int
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	reply := p.replies[p.calls%len(p.replies)]
	p.calls++
	return reply, nil
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.Generate(ctx, "", options...)
}

type countingRetriever struct {
	passages []retrieval.Passage
	err      error
	calls    int
}

func (r *countingRetriever) Retrieve(ctx context.Context, query string, topK int) ([]retrieval.Passage, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.passages, nil
}

func newTestWorkflow(provider *scriptedProvider, retriever *countingRetriever) *Workflow {
	classifier := NewLLMClassifier(provider, 0.5)
	composer := NewRAGComposer(retriever, provider, 4, 0.5)
	return New(classifier, composer)
}

func TestWorkflow_NegativeEscalates(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"negative"}}
	retriever := &countingRetriever{passages: []retrieval.Passage{{Content: "refund policy"}}}
	wf := newTestWorkflow(provider, retriever)

	result, err := wf.Run(context.Background(), "I want to talk to a human")
	require.NoError(t, err)

	assert.Equal(t, SentimentNegative, result.Sentiment)
	assert.True(t, result.Escalated)
	assert.Equal(t, constant.EscalationMessage, result.Response)
	assert.Equal(t, StageResponded, result.Stage)
	assert.Equal(t, 0, retriever.calls, "escalation must not touch the index")
	assert.Equal(t, 1, provider.calls, "escalation uses only the classification call")
}

func TestWorkflow_PositiveAnswers(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"positive", "You can reset it in settings."}}
	retriever := &countingRetriever{passages: []retrieval.Passage{{Content: "password reset docs"}}}
	wf := newTestWorkflow(provider, retriever)

	result, err := wf.Run(context.Background(), "How do I reset my password?")
	require.NoError(t, err)

	assert.Equal(t, SentimentPositive, result.Sentiment)
	assert.False(t, result.Escalated)
	assert.Equal(t, "You can reset it in settings.", result.Response)
	assert.Equal(t, StageResponded, result.Stage)
	assert.Equal(t, 1, retriever.calls)
	assert.Equal(t, 2, provider.calls, "one classification call plus one answer call")
}

func TestWorkflow_NoIndexSkipsGeneration(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"positive", "should never be used"}}
	retriever := &countingRetriever{err: retrieval.ErrNoIndex}
	wf := newTestWorkflow(provider, retriever)

	_, err := wf.Run(context.Background(), "What are your opening hours?")
	require.Error(t, err)
	assert.ErrorIs(t, err, retrieval.ErrNoIndex)
	assert.Equal(t, 1, provider.calls, "no answer generation without an index")
}

func TestWorkflow_UnknownLabelFails(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"neutral"}}
	retriever := &countingRetriever{}
	wf := newTestWorkflow(provider, retriever)

	_, err := wf.Run(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, 0, retriever.calls, "an unparseable label never falls through to the answer path")
}

func TestWorkflow_DeterministicRuns(t *testing.T) {
	queries := []struct {
		name     string
		replies  []string
		query    string
		expected string
	}{
		{
			name:     "escalation path",
			replies:  []string{"negative"},
			query:    "this is useless, get me a person",
			expected: constant.EscalationMessage,
		},
		{
			name:     "answer path",
			replies:  []string{"positive", "Shipping takes 3 days."},
			query:    "how long does shipping take?",
			expected: "Shipping takes 3 days.",
		},
	}

	for _, tc := range queries {
		t.Run(tc.name, func(t *testing.T) {
			var responses []string
			for i := 0; i < 2; i++ {
				provider := &scriptedProvider{replies: tc.replies}
				retriever := &countingRetriever{passages: []retrieval.Passage{{Content: "ctx"}}}
				wf := newTestWorkflow(provider, retriever)

				result, err := wf.Run(context.Background(), tc.query)
				require.NoError(t, err)
				responses = append(responses, result.Response)
			}
			assert.Equal(t, responses[0], responses[1])
			assert.Equal(t, tc.expected, responses[0])
		})
	}
}

func TestWorkflow_ClassifierErrorPropagates(t *testing.T) {
	wantErr := errors.New("provider unavailable")
	classifier := classifierFunc(func(ctx context.Context, query string) (Sentiment, error) {
		return "", wantErr
	})
	wf := New(classifier, nil)

	_, err := wf.Run(context.Background(), "anything")
	assert.ErrorIs(t, err, wantErr)
}

type classifierFunc func(ctx context.Context, query string) (Sentiment, error)

func (f classifierFunc) Classify(ctx context.Context, query string) (Sentiment, error) {
	return f(ctx, query)
}
