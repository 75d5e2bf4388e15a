package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentChunk is one embedded slice of a source document in the knowledge base.
type DocumentChunk struct {
	Id             uuid.UUID
	Filename       string
	Source         string // "upload" or "local"
	ChunkIndex     int
	Content        string
	EmbeddingValue []float32
	Metadata       map[string]interface{}
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
