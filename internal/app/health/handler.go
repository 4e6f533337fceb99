package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"routeplug/internal/pkg/render"
	"routeplug/internal/router"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) RegisterRoute(r chi.Router) {
	r.Get("/health", h.Handle)
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	render.ChiJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

var _ router.Handler = (*Handler)(nil)
