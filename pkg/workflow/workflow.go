package workflow

import (
	"context"

	"support-rag-be/internal/constant"
)

// Workflow is a thin sequencer over its two capabilities. It decides
// the path and carries state; classifier and composer errors propagate
// to the caller untouched, recovery lives at the transport layer.
type Workflow struct {
	classifier SentimentClassifier
	composer   AnswerComposer
}

func New(classifier SentimentClassifier, composer AnswerComposer) *Workflow {
	return &Workflow{
		classifier: classifier,
		composer:   composer,
	}
}

// Run takes a query through classification and then exactly one of the
// two terminal paths. On success the result always carries a response.
func (w *Workflow) Run(ctx context.Context, query string) (*Result, error) {
	result := &Result{
		Query: query,
		Stage: StageStart,
	}

	sentiment, err := w.classifier.Classify(ctx, query)
	if err != nil {
		return nil, err
	}
	result.Sentiment = sentiment
	result.Stage = StageSentimentAnalyzed

	if sentiment == SentimentNegative {
		result.Escalated = true
		result.Response = constant.EscalationMessage
		result.Stage = StageEscalated
	} else {
		answer, err := w.composer.Compose(ctx, query)
		if err != nil {
			return nil, err
		}
		result.Response = answer
		result.Stage = StageAnswered
	}

	result.Stage = StageResponded
	return result, nil
}
