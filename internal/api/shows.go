package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jorgej/gimlet-skill-sub000/internal/domain"
)

// ShowLister lists the catalog.
type ShowLister interface {
	Shows() []domain.Show
}

// ShowsHandler serves the read-only show listing.
type ShowsHandler struct {
	shows ShowLister
}

func NewShowsHandler(shows ShowLister) *ShowsHandler {
	return &ShowsHandler{shows: shows}
}

// RegisterRoutes registers the listing routes.
func (h *ShowsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/shows", h.List)
	})
}

type showView struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Serial  bool     `json:"serial"`
	Aliases []string `json:"aliases,omitempty"`
}

// List returns every show in catalog order.
func (h *ShowsHandler) List(w http.ResponseWriter, r *http.Request) {
	shows := h.shows.Shows()
	out := make([]showView, 0, len(shows))
	for _, s := range shows {
		out = append(out, showView{ID: string(s.ID), Title: s.Title, Serial: s.Serial, Aliases: s.Aliases})
	}
	JSON(w, http.StatusOK, map[string]any{"shows": out})
}
