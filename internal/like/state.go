package like

type ProductID int64

// State is an immutable snapshot of which products are liked. Products that
// are absent read as not liked.
type State struct {
	likes map[ProductID]bool
}

func NewState(likes map[ProductID]bool) State {
	return State{likes: copyLikes(likes)}
}

func (s State) Liked(id ProductID) bool {
	return s.likes[id]
}

// Snapshot returns a copy safe for the caller to mutate or serialize.
func (s State) Snapshot() map[ProductID]bool {
	return copyLikes(s.likes)
}

func (s State) LikedCount() int {
	n := 0
	for _, liked := range s.likes {
		if liked {
			n++
		}
	}
	return n
}

func copyLikes(src map[ProductID]bool) map[ProductID]bool {
	dst := make(map[ProductID]bool, len(src))
	for id, liked := range src {
		dst[id] = liked
	}
	return dst
}

type Action interface {
	actionName() string
}

// Toggle inverts the liked flag of exactly one product.
type Toggle struct {
	ProductID ProductID
}

func (Toggle) actionName() string { return "toggle" }

// SetLikes replaces the whole mapping. Products missing from Likes become not
// liked.
type SetLikes struct {
	Likes map[ProductID]bool
}

func (SetLikes) actionName() string { return "set_likes" }

func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case Toggle:
		next := copyLikes(state.likes)
		next[a.ProductID] = !state.likes[a.ProductID]
		return State{likes: next}
	case SetLikes:
		return NewState(a.Likes)
	default:
		return state
	}
}
