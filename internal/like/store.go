package like

import (
	"sync"

	"github.com/AlibekovAA/storefront/internal/observability/metrics"
)

type Listener func(State)

// Store holds the shared like state. Dispatches are serialized; listeners are
// invoked after the lock is released, in subscription order.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	order     []int
	nextID    int
}

func NewStore(initial State) *Store {
	return &Store{
		state:     NewState(initial.likes),
		listeners: make(map[int]Listener),
	}
}

func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	state := s.state
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	if _, ok := action.(Toggle); ok {
		metrics.LikeTogglesTotal.Inc()
	}
	metrics.LikeProductsLiked.Set(float64(state.LikedCount()))

	for _, l := range listeners {
		l(state)
	}
	return state
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Liked(id ProductID) bool {
	return s.State().Liked(id)
}

// Subscribe registers l for every later dispatch and returns a function that
// removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

func (s *Store) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.listeners[id])
	}
	return out
}
