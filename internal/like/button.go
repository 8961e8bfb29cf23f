package like

type Style struct {
	Background      string `json:"background"`
	HoverBackground string `json:"hover_background"`
}

var (
	likedStyle   = Style{Background: "red", HoverBackground: "#cc0000"}
	unlikedStyle = Style{Background: "#0070f3", HoverBackground: "#003cac"}
)

type View struct {
	ProductID ProductID `json:"product_id"`
	Liked     bool      `json:"liked"`
	Label     string    `json:"label"`
	Style     Style     `json:"style"`
}

type Button struct {
	store  *Store
	labels *Labels
}

func NewButton(store *Store, labels *Labels) *Button {
	return &Button{store: store, labels: labels}
}

// Render describes the button for one product. A liked product offers
// "unlike" and is drawn red.
func (b *Button) Render(id ProductID, locale string) View {
	liked := b.store.Liked(id)
	view := View{ProductID: id, Liked: liked}
	if liked {
		view.Label = b.labels.Label(locale, LabelUnlike)
		view.Style = likedStyle
	} else {
		view.Label = b.labels.Label(locale, LabelLike)
		view.Style = unlikedStyle
	}
	return view
}

func (b *Button) OnClick(id ProductID) State {
	return b.store.Dispatch(Toggle{ProductID: id})
}
