package workflow

// Stage tracks where a query is in its lifecycle. Every query follows
// exactly one path: start -> sentiment_analyzed -> (escalated | answered)
// -> responded.
type Stage string

const (
	StageStart             Stage = "start"
	StageSentimentAnalyzed Stage = "sentiment_analyzed"
	StageEscalated         Stage = "escalated"
	StageAnswered          Stage = "answered"
	StageResponded         Stage = "responded"
)

// Result is the terminal state of one workflow run. Response is always
// set when Run returns without error.
type Result struct {
	Query     string
	Sentiment Sentiment
	Response  string
	Escalated bool
	Stage     Stage
}
