package localstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, KeyLastSubmit)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, KeyLastSubmit, "1756720800"))
	got, err := store.Get(ctx, KeyLastSubmit)
	require.NoError(t, err)
	assert.Equal(t, "1756720800", got)

	require.NoError(t, store.Set(ctx, KeyLastSubmit, "1756720900"))
	got, err = store.Get(ctx, KeyLastSubmit)
	require.NoError(t, err)
	assert.Equal(t, "1756720900", got)

	require.NoError(t, store.Remove(ctx, KeyLastSubmit))
	_, err = store.Get(ctx, KeyLastSubmit)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreKeysAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyOfflineQueue, "[]"))
	require.NoError(t, store.Set(ctx, KeyAttribution, `{"source":"direct"}`))

	require.NoError(t, store.Remove(ctx, KeyOfflineQueue))

	got, err := store.Get(ctx, KeyAttribution)
	require.NoError(t, err)
	assert.Contains(t, got, "direct")
}

func TestMemoryStoreRemoveMissingKey(t *testing.T) {
	store := NewMemoryStore()
	assert.NoError(t, store.Remove(context.Background(), "absent"))
}
