package like

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	mu     sync.Mutex
	values map[string]string
	sets   int
	getErr error
	setErr error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{values: make(map[string]string)}
}

func (m *memoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	m.sets++
	return nil
}

func (m *memoryStorage) value(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

func TestFileStorage_GetMissing(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	_, ok, err := s.Get(context.Background(), "like")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStorage_SetThenGet(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "like", `{"1":true}`))
	require.NoError(t, s.Set(ctx, "like", `{"2":true}`))

	v, ok, err := s.Get(ctx, "like")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"2":true}`, v)
}

func TestFileStorage_RejectsPathKeys(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../etc", `a\b`} {
		_, _, err := s.Get(context.Background(), key)
		assert.ErrorIs(t, err, ErrInvalidStorageKey, "key %q", key)
	}
}
