package session

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"auditlens/pkg/contracts/domain"
)

// lockStripes bounds the number of per-key mutexes. Collisions only cost a
// little extra serialization between unrelated sessions.
const lockStripes = 64

// Manager mediates all access to session state. It creates state lazily on
// first access and serializes read-modify-write cycles per key, so two
// concurrent patches to the same session cannot lose updates.
type Manager struct {
	store  Store
	locks  [lockStripes]sync.Mutex
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a session manager over the given store.
func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		logger: logger.With(slog.String("component", "session_manager")),
		now:    time.Now,
	}
}

func (m *Manager) stripe(key Key) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key.String()))
	return &m.locks[h.Sum32()%lockStripes]
}

// Get returns the state for key, creating an empty one on first access.
func (m *Manager) Get(key Key) *domain.SessionState {
	mu := m.stripe(key)
	mu.Lock()
	defer mu.Unlock()
	return m.load(key)
}

// load must run under the key's stripe lock.
func (m *Manager) load(key Key) *domain.SessionState {
	if state, ok := m.store.Get(key); ok {
		return state
	}
	now := m.now()
	state := &domain.SessionState{CreatedAt: now, UpdatedAt: now}
	m.store.Put(key, state)
	m.logger.Debug("session created",
		slog.String("tenant", key.Tenant),
		slog.String("session", key.Session),
	)
	return state
}

// Update runs fn on the state for key under the key's lock and persists the
// result. fn receives a private copy, so a failed update leaves the stored
// state untouched.
func (m *Manager) Update(key Key, fn func(*domain.SessionState) error) (*domain.SessionState, error) {
	mu := m.stripe(key)
	mu.Lock()
	defer mu.Unlock()

	current := m.load(key)
	next := cloneState(current)
	if err := fn(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = m.now()
	m.store.Put(key, next)
	return next, nil
}

// Patch deep-merges a generic patch tree into the state for key, per the
// Merge contract. A patch that produces a tree the state shape cannot absorb
// (for example a string where periods belongs) fails without modifying the
// stored state.
func (m *Manager) Patch(key Key, patch map[string]any) (*domain.SessionState, error) {
	return m.Update(key, func(state *domain.SessionState) error {
		raw, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("encode state: %w", err)
		}
		var tree map[string]any
		if err := json.Unmarshal(raw, &tree); err != nil {
			return fmt.Errorf("decode state: %w", err)
		}

		merged := Merge(tree, patch)

		raw, err = json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("encode merged state: %w", err)
		}
		next := domain.SessionState{}
		if err := json.Unmarshal(raw, &next); err != nil {
			return fmt.Errorf("patch does not fit state shape: %w", err)
		}
		next.CreatedAt = state.CreatedAt
		*state = next
		return nil
	})
}

// Delete drops the state for key.
func (m *Manager) Delete(key Key) {
	mu := m.stripe(key)
	mu.Lock()
	defer mu.Unlock()
	m.store.Delete(key)
}

// cloneState copies state through its JSON form. State trees are small and
// this guarantees no aliasing between the stored value and the copy handed
// to an update function.
func cloneState(state *domain.SessionState) *domain.SessionState {
	raw, err := json.Marshal(state)
	if err != nil {
		copied := *state
		return &copied
	}
	next := &domain.SessionState{}
	if err := json.Unmarshal(raw, next); err != nil {
		copied := *state
		return &copied
	}
	next.CreatedAt = state.CreatedAt
	next.UpdatedAt = state.UpdatedAt
	return next
}
