package like

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/storefront/internal/common/logger"
)

func testLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, "test", "CRITICAL")
}

func TestPersister_MountOverwritesState(t *testing.T) {
	storage := newMemoryStorage()
	storage.values["like"] = `{"42": true}`
	store := NewStore(NewState(map[ProductID]bool{7: true}))

	p := NewPersister(store, storage, testLogger())
	require.NoError(t, p.Mount(context.Background()))

	assert.True(t, store.Liked(42))
	assert.False(t, store.Liked(7), "mount replaces the whole mapping")
	assert.False(t, store.Liked(1))
}

func TestPersister_MountWithoutStoredState(t *testing.T) {
	store := NewStore(NewState(map[ProductID]bool{3: true}))

	p := NewPersister(store, newMemoryStorage(), testLogger())
	require.NoError(t, p.Mount(context.Background()))

	assert.True(t, store.Liked(3))
}

func TestPersister_MalformedStateLeavesStoreUntouched(t *testing.T) {
	for _, raw := range []string{`{not json`, `null`, `[1,2]`, `{"abc": true}`} {
		t.Run(raw, func(t *testing.T) {
			storage := newMemoryStorage()
			storage.values["like"] = raw
			store := NewStore(NewState(map[ProductID]bool{5: true}))

			err := NewPersister(store, storage, testLogger()).Mount(context.Background())

			assert.ErrorIs(t, err, ErrMalformedLocalState)
			assert.True(t, store.Liked(5))
		})
	}
}

func TestPersister_ReadError(t *testing.T) {
	storage := newMemoryStorage()
	storage.getErr = errors.New("disk unavailable")

	err := NewPersister(NewStore(NewState(nil)), storage, testLogger()).Mount(context.Background())

	assert.ErrorIs(t, err, storage.getErr)
	assert.NotErrorIs(t, err, ErrMalformedLocalState)
}

func TestPersister_ReadErrorKeepsStoredState(t *testing.T) {
	storage := newMemoryStorage()
	storage.values["like"] = `{"1":true}`
	storage.getErr = errors.New("connection refused")
	store := NewStore(NewState(nil))
	p := NewPersister(store, storage, testLogger())

	require.Error(t, p.Mount(context.Background()))
	store.Dispatch(Toggle{ProductID: 9})

	assert.ErrorIs(t, p.Flush(context.Background()), ErrNotLoaded)
	assert.Equal(t, `{"1":true}`, storage.value("like"))
	assert.Zero(t, storage.sets)
}

func TestPersister_FlushBeforeMount(t *testing.T) {
	storage := newMemoryStorage()
	storage.values["like"] = `{"1":true}`
	p := NewPersister(NewStore(NewState(nil)), storage, testLogger())

	assert.ErrorIs(t, p.Flush(context.Background()), ErrNotLoaded)
	assert.Equal(t, `{"1":true}`, storage.value("like"))
}

func TestPersister_MountRunsOnce(t *testing.T) {
	storage := newMemoryStorage()
	storage.values["like"] = `{"1": true}`
	store := NewStore(NewState(nil))
	p := NewPersister(store, storage, testLogger())

	require.NoError(t, p.Mount(context.Background()))
	store.Dispatch(Toggle{ProductID: 1})
	storage.values["like"] = `{"9": true}`
	require.NoError(t, p.Mount(context.Background()))

	assert.False(t, store.Liked(1))
	assert.False(t, store.Liked(9), "second mount must not reload")
}

func TestPersister_WritesBackAfterDispatch(t *testing.T) {
	storage := newMemoryStorage()
	store := NewStore(NewState(nil))
	p := NewPersister(store, storage, testLogger())
	require.NoError(t, p.Mount(context.Background()))

	store.Dispatch(Toggle{ProductID: 42})

	var saved map[string]bool
	require.NoError(t, json.Unmarshal([]byte(storage.value("like")), &saved))
	assert.Equal(t, map[string]bool{"42": true}, saved)

	store.Dispatch(Toggle{ProductID: 42})
	require.NoError(t, json.Unmarshal([]byte(storage.value("like")), &saved))
	assert.Equal(t, map[string]bool{"42": false}, saved)
}

func TestPersister_WriteBackRoundTripsThroughMount(t *testing.T) {
	storage := newMemoryStorage()
	first := NewStore(NewState(nil))
	require.NoError(t, NewPersister(first, storage, testLogger()).Mount(context.Background()))
	first.Dispatch(Toggle{ProductID: 10})
	first.Dispatch(Toggle{ProductID: 11})

	second := NewStore(NewState(nil))
	require.NoError(t, NewPersister(second, storage, testLogger()).Mount(context.Background()))

	assert.True(t, second.Liked(10))
	assert.True(t, second.Liked(11))
}

func TestPersister_FlushAndClose(t *testing.T) {
	storage := newMemoryStorage()
	store := NewStore(NewState(map[ProductID]bool{4: true}))
	p := NewPersister(store, storage, testLogger())
	require.NoError(t, p.Mount(context.Background()))

	p.Close()
	store.Dispatch(Toggle{ProductID: 5})
	assert.Equal(t, 0, storage.sets, "no write-back after close")

	require.NoError(t, p.Flush(context.Background()))
	var saved map[string]bool
	require.NoError(t, json.Unmarshal([]byte(storage.value("like")), &saved))
	assert.Equal(t, map[string]bool{"4": true, "5": true}, saved)
}

func TestPersister_FlushError(t *testing.T) {
	storage := newMemoryStorage()
	p := NewPersister(NewStore(NewState(nil)), storage, testLogger())
	require.NoError(t, p.Mount(context.Background()))
	storage.setErr = errors.New("read-only")

	assert.ErrorIs(t, p.Flush(context.Background()), storage.setErr)
}
