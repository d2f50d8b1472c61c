package memory

import (
	"sync"
	"time"

	"ai-tutor-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps chat sessions in process memory. Idle sessions
// expire after an hour; nothing survives a restart.
type SessionRepository struct {
	cache *cache.Cache

	// mu serializes mutation of cached session pointers, including the
	// busy-flag transitions.
	mu sync.Mutex
}

func NewSessionRepository() *SessionRepository {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *entity.ChatSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Set(session.Id.String(), session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*entity.ChatSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x, found := r.cache.Get(sessionID); found {
		return x.(*entity.ChatSession), true
	}
	return nil, false
}

func (r *SessionRepository) All() []*entity.ChatSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.cache.Items()
	sessions := make([]*entity.ChatSession, 0, len(items))
	for _, item := range items {
		sessions = append(sessions, item.Object.(*entity.ChatSession))
	}
	return sessions
}

func (r *SessionRepository) Delete(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(sessionID)
}

// TryAcquire marks the session busy. It returns false when the session does
// not exist or already has a request in flight; the caller must not proceed.
func (r *SessionRepository) TryAcquire(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	x, found := r.cache.Get(sessionID)
	if !found {
		return false
	}
	session := x.(*entity.ChatSession)
	if session.Busy {
		return false
	}
	session.Busy = true
	return true
}

// Release clears the busy flag set by TryAcquire.
func (r *SessionRepository) Release(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x, found := r.cache.Get(sessionID); found {
		x.(*entity.ChatSession).Busy = false
	}
}

// AppendMessages appends to the transcript and bumps the session timestamp.
// The append is atomic with respect to other repository calls.
func (r *SessionRepository) AppendMessages(sessionID string, messages ...*entity.ChatMessage) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	x, found := r.cache.Get(sessionID)
	if !found {
		return false
	}
	session := x.(*entity.ChatSession)
	session.Messages = append(session.Messages, messages...)
	now := time.Now()
	session.UpdatedAt = &now
	r.cache.Set(sessionID, session, cache.DefaultExpiration)
	return true
}

func (r *SessionRepository) SetTitle(sessionID, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x, found := r.cache.Get(sessionID); found {
		session := x.(*entity.ChatSession)
		session.Title = title
		now := time.Now()
		session.UpdatedAt = &now
	}
}
