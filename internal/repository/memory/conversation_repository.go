package memory

import (
	"time"

	"support-rag-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type ConversationRepository struct {
	cache *cache.Cache
}

func NewConversationRepository() *ConversationRepository {
	// Default expiration of 1 hour, purge expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &ConversationRepository{
		cache: c,
	}
}

func (r *ConversationRepository) Save(conversation *store.Conversation) {
	r.cache.Set(conversation.ID, conversation, cache.DefaultExpiration)
}

func (r *ConversationRepository) Get(conversationID string) (*store.Conversation, bool) {
	if x, found := r.cache.Get(conversationID); found {
		return x.(*store.Conversation), true
	}
	return nil, false
}

// GetOrCreate returns the existing conversation or starts a fresh one.
func (r *ConversationRepository) GetOrCreate(conversationID string) *store.Conversation {
	if conv, found := r.Get(conversationID); found {
		return conv
	}
	conv := &store.Conversation{
		ID:        conversationID,
		StartedAt: time.Now(),
	}
	r.Save(conv)
	return conv
}

func (r *ConversationRepository) Delete(conversationID string) {
	r.cache.Delete(conversationID)
}
