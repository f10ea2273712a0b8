package saved

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s := New(3, 1, 3, 2)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []int{1, 2, 3}, s.IDs())

	var zero Set
	assert.Equal(t, 0, zero.Len())
	assert.False(t, zero.Contains(1))
	assert.Empty(t, zero.IDs())
}

func TestToggle_FlipsMembership(t *testing.T) {
	s := New(1)

	added := s.Toggle(2)
	assert.True(t, added.Contains(2))
	assert.True(t, added.Contains(1))

	removed := added.Toggle(1)
	assert.False(t, removed.Contains(1))
	assert.True(t, removed.Contains(2))
}

func TestToggle_DoesNotMutateReceiver(t *testing.T) {
	s := New(1)
	_ = s.Toggle(1)
	_ = s.Toggle(5)
	assert.True(t, s.Contains(1))
	assert.False(t, s.Contains(5))
}

func TestToggle_ZeroValue(t *testing.T) {
	var s Set
	next := s.Toggle(7)
	assert.True(t, next.Contains(7))
	assert.Equal(t, 0, s.Len())
}

func TestToggle_Idempotent(t *testing.T) {
	sets := []Set{New(), New(1), New(1, 2, 3), New(-4, 0, 99)}
	ids := []int{0, 1, 2, 42, -4}

	for _, s := range sets {
		for _, id := range ids {
			t.Run(fmt.Sprintf("%v/%d", s.IDs(), id), func(t *testing.T) {
				assert.True(t, s.Toggle(id).Toggle(id).Equal(s))
			})
		}
	}
}

func TestUnion(t *testing.T) {
	u := New(1, 2).Union(New(2, 3))
	assert.Equal(t, []int{1, 2, 3}, u.IDs())
}

func TestEqual(t *testing.T) {
	assert.True(t, New(1, 2).Equal(New(2, 1)))
	assert.False(t, New(1, 2).Equal(New(1)))
	assert.False(t, New(1, 2).Equal(New(1, 3)))
	assert.True(t, New().Equal(Set{}))
}

// memStore is an in-memory Persister for tests.
type memStore struct {
	mu      sync.Mutex
	ids     []int
	saves   int
	failErr error
}

func (m *memStore) Load(context.Context) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.ids...), nil
}

func (m *memStore) Save(_ context.Context, ids []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.ids = append([]int(nil), ids...)
	m.saves++
	return nil
}

func TestManager_InMemory(t *testing.T) {
	ctx := context.Background()
	m, err := Open(ctx, nil)
	require.NoError(t, err)

	now, err := m.Toggle(ctx, 4)
	require.NoError(t, err)
	assert.True(t, now)

	now, err = m.Toggle(ctx, 4)
	require.NoError(t, err)
	assert.False(t, now)
	assert.Equal(t, 0, m.Snapshot().Len())
}

func TestManager_SnapshotIsStable(t *testing.T) {
	ctx := context.Background()
	m := NewManager(New(1))
	snap := m.Snapshot()

	_, err := m.Toggle(ctx, 2)
	require.NoError(t, err)

	assert.False(t, snap.Contains(2), "earlier snapshot must not change")
	assert.True(t, m.Snapshot().Contains(2))
}

func TestManager_WritesThrough(t *testing.T) {
	ctx := context.Background()
	store := &memStore{ids: []int{5, 999}}

	m, err := Open(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 999}, m.Snapshot().IDs(), "stale ids are kept")

	_, err = m.Toggle(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6, 999}, store.ids)
	assert.Equal(t, 1, store.saves)
}

func TestManager_FailedWriteKeepsState(t *testing.T) {
	ctx := context.Background()
	store := &memStore{ids: []int{1}}
	m, err := Open(ctx, store)
	require.NoError(t, err)

	store.failErr = fmt.Errorf("disk full")
	now, err := m.Toggle(ctx, 1)
	require.Error(t, err)
	assert.True(t, now, "reports unchanged membership")
	assert.True(t, m.Snapshot().Contains(1))

	err = m.Replace(ctx, New())
	require.Error(t, err)
	assert.Equal(t, 1, m.Snapshot().Len())
}

func TestManager_Replace(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	m, err := Open(ctx, store)
	require.NoError(t, err)

	require.NoError(t, m.Replace(ctx, New(8, 9)))
	assert.Equal(t, []int{8, 9}, m.Snapshot().IDs())
	assert.Equal(t, []int{8, 9}, store.ids)
}

func TestManager_ConcurrentToggles(t *testing.T) {
	ctx := context.Background()
	m := NewManager(New())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, _ = m.Toggle(ctx, id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, m.Snapshot().Len())
}

func TestManager_UpdateHoldsOffToggles(t *testing.T) {
	ctx := context.Background()
	m := NewManager(New(1))

	entered := make(chan struct{})
	release := make(chan struct{})
	updated := make(chan error, 1)
	go func() {
		updated <- m.Update(ctx, func(current Set) Set {
			close(entered)
			<-release
			return current.Union(New(2, 3))
		})
	}()

	<-entered
	toggled := make(chan struct{})
	go func() {
		_, _ = m.Toggle(ctx, 7)
		close(toggled)
	}()

	select {
	case <-toggled:
		t.Fatal("toggle completed while an update was computing")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-updated)
	<-toggled
	assert.Equal(t, []int{1, 2, 3, 7}, m.Snapshot().IDs())
}

func TestManager_UpdateFailedWriteKeepsState(t *testing.T) {
	ctx := context.Background()
	store := &memStore{ids: []int{1}}
	m, err := Open(ctx, store)
	require.NoError(t, err)

	store.failErr = fmt.Errorf("disk full")
	calls := 0
	err = m.Update(ctx, func(current Set) Set {
		calls++
		return current.Toggle(2)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []int{1}, m.Snapshot().IDs())
}
