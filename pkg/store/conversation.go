package store

import "time"

// Conversation represents the active chat session state in memory
type Conversation struct {
	ID string `json:"id"` // Conversation UUID from the client

	// Last workflow outcome, used for observability and reconnects
	LastQuery     string `json:"last_query"`
	LastSentiment string `json:"last_sentiment"` // "positive" | "negative"
	Escalated     bool   `json:"escalated"`

	MessageCount int       `json:"message_count"`
	StartedAt    time.Time `json:"started_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}
