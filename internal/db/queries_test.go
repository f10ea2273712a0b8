package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/shelf/internal/saved"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// Compile-time check that SavedStore satisfies saved.Persister.
var _ saved.Persister = (*SavedStore)(nil)

func TestSavedStore_EmptyProfile(t *testing.T) {
	store := &SavedStore{DB: openTestDB(t), Profile: "default"}

	ids, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)
}

func TestSavedStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := &SavedStore{DB: openTestDB(t), Profile: "default"}

	require.NoError(t, store.Save(ctx, []int{9, 3, 5}))
	ids, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5, 9}, ids)

	require.NoError(t, store.Save(ctx, []int{5}))
	ids, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, ids)

	require.NoError(t, store.Save(ctx, nil))
	ids, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSavedStore_KeepsSavedAt(t *testing.T) {
	ctx := context.Background()
	clock := time.Unix(1000, 0)
	store := &SavedStore{DB: openTestDB(t), Profile: "default", Now: func() time.Time { return clock }}

	require.NoError(t, store.Save(ctx, []int{1}))
	clock = time.Unix(2000, 0)
	require.NoError(t, store.Save(ctx, []int{1, 2}))

	entries, err := store.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []SavedEntry{{PromptID: 1, SavedAt: 1000}, {PromptID: 2, SavedAt: 2000}}, entries)
}

func TestSavedStore_ProfilesAreIsolated(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	a := &SavedStore{DB: db, Profile: "a"}
	b := &SavedStore{DB: db, Profile: "b"}

	require.NoError(t, a.Save(ctx, []int{1, 2}))
	require.NoError(t, b.Save(ctx, []int{7}))

	ids, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids)

	profiles, err := ListProfiles(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []ProfileSummary{{"a", 2}, {"b", 1}}, profiles)
}

func TestSavedStore_WithManager(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	m, err := saved.Open(ctx, &SavedStore{DB: db, Profile: "default"})
	require.NoError(t, err)
	_, err = m.Toggle(ctx, 4)
	require.NoError(t, err)

	// A fresh manager sees the persisted toggle.
	m2, err := saved.Open(ctx, &SavedStore{DB: db, Profile: "default"})
	require.NoError(t, err)
	assert.True(t, m2.Snapshot().Contains(4))
}

func TestSavedStore_CancelledContext(t *testing.T) {
	store := &SavedStore{DB: openTestDB(t), Profile: "default"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, store.Save(ctx, []int{1}))
}
