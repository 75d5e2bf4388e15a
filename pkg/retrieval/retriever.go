package retrieval

import (
	"context"
	"errors"
)

// ErrNoIndex is returned when no knowledge base has been built yet.
var ErrNoIndex = errors.New("retrieval: no index available")

// Passage is one retrieved chunk of knowledge base text.
type Passage struct {
	Content    string
	Source     string // Filename of the originating document
	ChunkIndex int
	Score      float64 // Cosine similarity, 0.0 to 1.0
}

// Retriever finds the passages most relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]Passage, error)
}
