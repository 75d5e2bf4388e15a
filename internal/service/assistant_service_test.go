package service

import (
	"context"
	"errors"
	"testing"

	"support-rag-be/internal/constant"
	"support-rag-be/internal/repository/memory"
	"support-rag-be/pkg/retrieval"
	"support-rag-be/pkg/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module string, message string, details map[string]interface{}) {}
func (nopLogger) Info(module string, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module string, message string, details map[string]interface{})  {}
func (nopLogger) Error(module string, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                         { return nil }

type fixedClassifier struct {
	sentiment workflow.Sentiment
	err       error
}

func (c fixedClassifier) Classify(ctx context.Context, query string) (workflow.Sentiment, error) {
	return c.sentiment, c.err
}

type fixedComposer struct {
	answer string
	err    error
}

func (c fixedComposer) Compose(ctx context.Context, query string) (string, error) {
	return c.answer, c.err
}

func TestAssistantService_AnswerPath(t *testing.T) {
	wf := workflow.New(
		fixedClassifier{sentiment: workflow.SentimentPositive},
		fixedComposer{answer: "Returns are free within 30 days."},
	)
	svc := NewAssistantService(wf, memory.NewConversationRepository(), nopLogger{})

	res := svc.HandleQuery(context.Background(), "conv-1", "what is the return policy?")

	assert.Equal(t, "Returns are free within 30 days.", res.Response)
	assert.Equal(t, "positive", res.Sentiment)
	assert.False(t, res.Escalated)
}

func TestAssistantService_EscalationPath(t *testing.T) {
	wf := workflow.New(
		fixedClassifier{sentiment: workflow.SentimentNegative},
		fixedComposer{answer: "never used"},
	)
	repo := memory.NewConversationRepository()
	svc := NewAssistantService(wf, repo, nopLogger{})

	res := svc.HandleQuery(context.Background(), "conv-2", "I am furious, get me a human")

	assert.Equal(t, constant.EscalationMessage, res.Response)
	assert.True(t, res.Escalated)

	conv, found := repo.Get("conv-2")
	require.True(t, found)
	assert.True(t, conv.Escalated)
	assert.Equal(t, "negative", conv.LastSentiment)
}

func TestAssistantService_NoIndexKeepsConnectionUsable(t *testing.T) {
	wf := workflow.New(
		fixedClassifier{sentiment: workflow.SentimentPositive},
		fixedComposer{err: retrieval.ErrNoIndex},
	)
	svc := NewAssistantService(wf, memory.NewConversationRepository(), nopLogger{})

	res := svc.HandleQuery(context.Background(), "conv-3", "anything indexed yet?")

	assert.Equal(t, constant.NoKnowledgeBaseMessage, res.Response)
	assert.False(t, res.Escalated)
}

func TestAssistantService_InternalErrorIsMasked(t *testing.T) {
	wf := workflow.New(
		fixedClassifier{err: errors.New("provider down")},
		fixedComposer{},
	)
	svc := NewAssistantService(wf, memory.NewConversationRepository(), nopLogger{})

	res := svc.HandleQuery(context.Background(), "conv-4", "hello")

	assert.Equal(t, constant.GenericFailureMessage, res.Response)
}

func TestAssistantService_ConversationTracking(t *testing.T) {
	wf := workflow.New(
		fixedClassifier{sentiment: workflow.SentimentPositive},
		fixedComposer{answer: "ok"},
	)
	repo := memory.NewConversationRepository()
	svc := NewAssistantService(wf, repo, nopLogger{})

	svc.HandleQuery(context.Background(), "conv-5", "first")
	svc.HandleQuery(context.Background(), "conv-5", "second")

	conv, found := repo.Get("conv-5")
	require.True(t, found)
	assert.Equal(t, 2, conv.MessageCount)
	assert.Equal(t, "second", conv.LastQuery)
}
