// Package session holds per-(tenant,session) working state behind a store
// interface with pluggable eviction, and implements the deep-merge patch
// semantics callers mutate that state through.
package session

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"auditlens/pkg/contracts/domain"
)

// Key identifies one session's state.
type Key struct {
	Tenant  string
	Session string
}

func (k Key) String() string {
	return k.Tenant + ":" + k.Session
}

// Store is the session state store. Implementations must be safe for
// concurrent use; serialization of read-modify-write cycles is the Manager's
// job, not the store's.
type Store interface {
	Get(key Key) (*domain.SessionState, bool)
	Put(key Key, state *domain.SessionState)
	Delete(key Key)
	Len() int
}

// LRUStore bounds resident sessions by count and idle time so an abandoned
// tenant cannot grow the process without limit.
type LRUStore struct {
	cache *expirable.LRU[Key, *domain.SessionState]
}

// NewLRUStore creates a store that holds at most capacity sessions, each
// expiring ttl after its last write.
func NewLRUStore(capacity int, ttl time.Duration) *LRUStore {
	return &LRUStore{
		cache: expirable.NewLRU[Key, *domain.SessionState](capacity, nil, ttl),
	}
}

func (s *LRUStore) Get(key Key) (*domain.SessionState, bool) {
	return s.cache.Get(key)
}

func (s *LRUStore) Put(key Key, state *domain.SessionState) {
	s.cache.Add(key, state)
}

func (s *LRUStore) Delete(key Key) {
	s.cache.Remove(key)
}

func (s *LRUStore) Len() int {
	return s.cache.Len()
}

// MemoryStore is a plain map-backed store without eviction, used in tests
// and the offline CLI.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[Key]*domain.SessionState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[Key]*domain.SessionState)}
}

func (s *MemoryStore) Get(key Key) (*domain.SessionState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[key]
	return state, ok
}

func (s *MemoryStore) Put(key Key, state *domain.SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = state
}

func (s *MemoryStore) Delete(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
