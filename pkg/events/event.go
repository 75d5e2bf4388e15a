package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "INDEX_REBUILT").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a generic Event implementation.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	// TypeIndexRebuilt fires after a full knowledge base rebuild completes.
	TypeIndexRebuilt = "INDEX_REBUILT"

	// TypeDocumentIndexed fires after one document is chunked and stored.
	TypeDocumentIndexed = "DOCUMENT_INDEXED"
)

// NewIndexRebuilt builds the event emitted when the index swap finishes.
func NewIndexRebuilt(documentCount int, chunkCount int) Event {
	return BaseEvent{
		Type: TypeIndexRebuilt,
		Data: map[string]interface{}{
			"document_count": documentCount,
			"chunk_count":    chunkCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentIndexed builds the event emitted per ingested document.
func NewDocumentIndexed(filename string, chunkCount int) Event {
	return BaseEvent{
		Type: TypeDocumentIndexed,
		Data: map[string]interface{}{
			"filename":    filename,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}
