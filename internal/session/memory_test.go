package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorePutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(time.Hour)

	_, ok, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, Session{UserID: 42, Step: StepAmount}))
	s, ok, err := store.Get(ctx, 42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StepAmount, s.Step)
	assert.False(t, s.UpdatedAt.IsZero())

	require.NoError(t, store.Delete(ctx, 42))
	_, ok, err = store.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreTTLEviction(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(30 * time.Minute)

	current := time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Put(ctx, Session{UserID: 1, Step: StepDueDate}))

	current = current.Add(29 * time.Minute)
	_, ok, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok, "still fresh")

	current = current.Add(2 * time.Minute)
	_, ok, err = store.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok, "expired sessions are dropped on read")
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(10 * time.Minute)

	current := time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Put(ctx, Session{UserID: 1}))
	require.NoError(t, store.Put(ctx, Session{UserID: 2}))

	current = current.Add(11 * time.Minute)
	require.NoError(t, store.Put(ctx, Session{UserID: 3}))

	store.sweepOnce()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.NotContains(t, store.sessions, int64(1))
	assert.NotContains(t, store.sessions, int64(2))
	assert.Contains(t, store.sessions, int64(3))
}
