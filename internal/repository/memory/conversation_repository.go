package memory

import (
	"time"

	"tabsensei-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// ConversationRepository keeps per-device chat history in process
// memory. Entries expire after an hour of inactivity.
type ConversationRepository struct {
	cache *cache.Cache
}

func NewConversationRepository() *ConversationRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &ConversationRepository{
		cache: c,
	}
}

func (r *ConversationRepository) Save(conv *store.Conversation) {
	r.cache.Set(conv.DeviceID, conv, cache.DefaultExpiration)
}

func (r *ConversationRepository) Get(deviceID string) (*store.Conversation, bool) {
	if x, found := r.cache.Get(deviceID); found {
		return x.(*store.Conversation), true
	}
	return nil, false
}

func (r *ConversationRepository) Delete(deviceID string) {
	r.cache.Delete(deviceID)
}
