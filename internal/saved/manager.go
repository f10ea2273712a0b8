package saved

import (
	"context"
	"sync"
)

// Persister loads and stores a saved set outside the process.
// Load may return stale ids; Save receives the complete current set.
type Persister interface {
	Load(ctx context.Context) ([]int, error)
	Save(ctx context.Context, ids []int) error
}

// Manager owns the saved set for one session. Toggles are applied one at a
// time; Snapshot never observes a half-applied toggle.
type Manager struct {
	mu    sync.Mutex
	set   Set
	store Persister // optional
}

// NewManager returns a Manager seeded with initial and no persistence.
func NewManager(initial Set) *Manager {
	return &Manager{set: initial}
}

// Open returns a Manager seeded from store. A nil store yields an empty,
// in-memory Manager.
func Open(ctx context.Context, store Persister) (*Manager, error) {
	if store == nil {
		return NewManager(New()), nil
	}
	ids, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Manager{set: New(ids...), store: store}, nil
}

// Snapshot returns the current set. The returned Set is immutable.
func (m *Manager) Snapshot() Set {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set
}

// Toggle flips the membership of id and reports whether it is now saved.
// With a Persister attached the new set is written first; on a write error
// the in-memory set is left unchanged.
func (m *Manager) Toggle(ctx context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.set.Toggle(id)
	if err := m.persist(ctx, next); err != nil {
		return m.set.Contains(id), err
	}
	m.set = next
	return next.Contains(id), nil
}

// Replace swaps the whole set.
func (m *Manager) Replace(ctx context.Context, next Set) error {
	return m.Update(ctx, func(Set) Set { return next })
}

// Update computes the next set from the current one, persists it and
// publishes it under one lock, so no toggle lands in between. fn is called
// exactly once; on a write error the in-memory set is left unchanged.
func (m *Manager) Update(ctx context.Context, fn func(current Set) Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := fn(m.set)
	if err := m.persist(ctx, next); err != nil {
		return err
	}
	m.set = next
	return nil
}

func (m *Manager) persist(ctx context.Context, next Set) error {
	if m.store == nil {
		return nil
	}
	return m.store.Save(ctx, next.IDs())
}
