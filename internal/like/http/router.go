package http

import (
	"net/http"
	"strings"

	commonhttp "github.com/AlibekovAA/storefront/internal/common/http"
	"github.com/AlibekovAA/storefront/internal/common/logger"
	"github.com/AlibekovAA/storefront/internal/like"
)

type likesResponse struct {
	Likes map[like.ProductID]bool `json:"likes"`
}

type Handler struct {
	store        *like.Store
	button       *like.Button
	errorHandler *commonhttp.ErrorHandler
	log          *logger.Logger
}

func NewHandler(store *like.Store, button *like.Button, log *logger.Logger) http.Handler {
	h := &Handler{
		store:        store,
		button:       button,
		errorHandler: commonhttp.NewErrorHandler(log),
		log:          log,
	}

	get := commonhttp.RequireMethod(http.MethodGet)
	post := commonhttp.RequireMethod(http.MethodPost)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/likes", get(h.list))
	mux.HandleFunc("/api/likes/{productID}", get(h.render))
	mux.HandleFunc("/api/likes/{productID}/toggle", post(h.toggle))
	return mux
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	commonhttp.WriteJSON(w, http.StatusOK, likesResponse{Likes: h.store.State().Snapshot()})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, h.button.Render(id, requestLocale(r)))
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	state := h.button.OnClick(id)
	h.log.WithFields(r.Context(), logger.Fields{
		"product_id": int64(id),
		"liked":      state.Liked(id),
		"action":     "like_toggled",
	}).Debug("like toggled")

	commonhttp.WriteJSON(w, http.StatusOK, h.button.Render(id, requestLocale(r)))
}

func (h *Handler) productID(w http.ResponseWriter, r *http.Request) (like.ProductID, bool) {
	id, err := commonhttp.PathInt64(r, "productID")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return 0, false
	}
	return like.ProductID(id), true
}

// requestLocale prefers ?lang= and falls back to the first Accept-Language tag.
func requestLocale(r *http.Request) string {
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		return lang
	}
	accept := r.Header.Get("Accept-Language")
	if accept == "" {
		return ""
	}
	first := strings.SplitN(accept, ",", 2)[0]
	return strings.TrimSpace(strings.SplitN(first, ";", 2)[0])
}
