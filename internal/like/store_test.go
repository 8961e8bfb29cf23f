package like

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_DispatchNotifiesListeners(t *testing.T) {
	store := NewStore(NewState(nil))

	var seen []bool
	store.Subscribe(func(s State) { seen = append(seen, s.Liked(5)) })

	store.Dispatch(Toggle{ProductID: 5})
	store.Dispatch(Toggle{ProductID: 5})

	assert.Equal(t, []bool{true, false}, seen)
}

func TestStore_Unsubscribe(t *testing.T) {
	store := NewStore(NewState(nil))

	calls := 0
	unsubscribe := store.Subscribe(func(State) { calls++ })
	store.Dispatch(Toggle{ProductID: 1})
	unsubscribe()
	store.Dispatch(Toggle{ProductID: 1})

	assert.Equal(t, 1, calls)
}

func TestStore_ListenerMayReadState(t *testing.T) {
	store := NewStore(NewState(nil))

	var liked bool
	store.Subscribe(func(State) { liked = store.Liked(3) })
	store.Dispatch(Toggle{ProductID: 3})

	assert.True(t, liked)
}

func TestStore_ConcurrentTogglesAreSerialized(t *testing.T) {
	store := NewStore(NewState(nil))

	const toggles = 100
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Dispatch(Toggle{ProductID: 8})
		}()
	}
	wg.Wait()

	require.Equal(t, 0, toggles%2)
	assert.False(t, store.Liked(8), "an even number of toggles must cancel out")
}
