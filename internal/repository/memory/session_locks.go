package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionLockRegistry hands out one mutex per chat session so state
// transitions for a session are applied by a single writer at a time.
// Locks expire after an hour of inactivity so abandoned sessions do not
// pin memory.
type SessionLockRegistry struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewSessionLockRegistry() *SessionLockRegistry {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionLockRegistry{
		cache: c,
	}
}

// Acquire returns the mutex for the given session, creating it on first
// use. Callers lock and unlock it around the transition they perform.
func (r *SessionLockRegistry) Acquire(sessionId uuid.UUID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sessionId.String()
	if x, found := r.cache.Get(key); found {
		// Touch to keep hot sessions alive.
		r.cache.Set(key, x, cache.DefaultExpiration)
		return x.(*sync.Mutex)
	}
	m := &sync.Mutex{}
	r.cache.Set(key, m, cache.DefaultExpiration)
	return m
}

// Release drops the mutex for a session that reached a terminal state.
func (r *SessionLockRegistry) Release(sessionId uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(sessionId.String())
}
