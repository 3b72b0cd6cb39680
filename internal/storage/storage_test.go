package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage(1)

	payload := []byte(`{"type":"ADD_RESP","result":17}`)

	handle, err := s.Store(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, ComputeHandle(payload), handle)

	got, err := s.Load(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// Identical payloads deduplicate to the same handle.
	again, err := s.Store(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, handle, again)

	exists, err := s.Exists(ctx, handle)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Delete(ctx, handle))

	_, err = s.Load(ctx, handle)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, handle), ErrNotFound)
}

func TestMemoryStorageCapacity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage(0)

	_, err := s.Store(ctx, []byte("anything"))
	assert.ErrorIs(t, err, ErrStorageFull)
}

func TestMemoryStorageCopiesData(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage(1)

	payload := []byte("original")
	handle, err := s.Store(ctx, payload)
	require.NoError(t, err)

	payload[0] = 'X'

	got, err := s.Load(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)
}

func TestFileStorage(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	payload := []byte(`{"type":"SUB_RESP","result":316}`)

	handle, err := s.Store(ctx, payload)
	require.NoError(t, err)

	got, err := s.Load(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	exists, err := s.Exists(ctx, handle)
	require.NoError(t, err)
	assert.True(t, exists)

	// Stored again, same content: same handle, no error.
	again, err := s.Store(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, handle, again)

	require.NoError(t, s.Delete(ctx, handle))

	_, err = s.Load(ctx, handle)
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err = s.Exists(ctx, handle)
	require.NoError(t, err)
	assert.False(t, exists)
}
