package memory

import (
	"support-chat-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository holds live sessions. Expiration is driven by the session
// manager's eviction sweep rather than go-cache's janitor, so eviction time is
// based on LastActivity, not on the last Set call.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(cache.NoExpiration, 0)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.NoExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// All returns a snapshot of the live sessions.
func (r *SessionRepository) All() []*store.Session {
	items := r.cache.Items()
	sessions := make([]*store.Session, 0, len(items))
	for _, item := range items {
		sessions = append(sessions, item.Object.(*store.Session))
	}
	return sessions
}

func (r *SessionRepository) Len() int {
	return r.cache.ItemCount()
}
