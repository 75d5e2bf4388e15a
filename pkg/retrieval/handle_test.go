package retrieval

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRetriever struct {
	passages []Passage
	calls    int
	mu       sync.Mutex
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string, topK int) ([]Passage, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.passages, nil
}

func TestHandle_NoIndex(t *testing.T) {
	h := NewHandle()

	assert.False(t, h.Ready())

	_, err := h.Retrieve(context.Background(), "anything", 4)
	assert.ErrorIs(t, err, ErrNoIndex)
}

func TestHandle_Swap(t *testing.T) {
	h := NewHandle()
	stub := &stubRetriever{passages: []Passage{{Content: "hello", Source: "doc.txt"}}}

	h.Swap(stub)
	assert.True(t, h.Ready())

	passages, err := h.Retrieve(context.Background(), "greeting", 4)
	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Equal(t, "hello", passages[0].Content)

	h.Swap(nil)
	assert.False(t, h.Ready())
	_, err = h.Retrieve(context.Background(), "greeting", 4)
	assert.ErrorIs(t, err, ErrNoIndex)
}

func TestHandle_ConcurrentSwapAndRetrieve(t *testing.T) {
	h := NewHandle()
	old := &stubRetriever{passages: []Passage{{Content: "old"}}}
	fresh := &stubRetriever{passages: []Passage{{Content: "new"}}}
	h.Swap(old)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			passages, err := h.Retrieve(context.Background(), "q", 1)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			// Every reader sees a complete index, old or new
			if len(passages) != 1 {
				t.Errorf("expected 1 passage, got %d", len(passages))
			}
		}()
	}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Swap(fresh)
		}()
	}
	wg.Wait()

	passages, err := h.Retrieve(context.Background(), "q", 1)
	require.NoError(t, err)
	assert.Equal(t, "new", passages[0].Content)
}
