package retrieval

import (
	"context"
	"sync"
)

// Handle is an atomically swappable Retriever. Queries running during a
// rebuild see either the complete old index or the complete new one,
// never a half-built state.
type Handle struct {
	mu        sync.RWMutex
	retriever Retriever
}

func NewHandle() *Handle {
	return &Handle{}
}

// Swap replaces the active retriever. Pass nil to mark the index as absent.
func (h *Handle) Swap(r Retriever) {
	h.mu.Lock()
	h.retriever = r
	h.mu.Unlock()
}

// Ready reports whether an index is currently available.
func (h *Handle) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.retriever != nil
}

func (h *Handle) Retrieve(ctx context.Context, query string, topK int) ([]Passage, error) {
	h.mu.RLock()
	r := h.retriever
	h.mu.RUnlock()

	if r == nil {
		return nil, ErrNoIndex
	}
	return r.Retrieve(ctx, query, topK)
}
