package httpx

import (
	"context"
	"github.com/go-chi/chi/v5"
	"net/http"
	"time"
)

type menuItemResp struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Price      string `json:"price"`
	Available  bool   `json:"available"`
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	cats, err := h.Menu.ListCategories(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Menu.ListItems(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]menuItemResp, 0, len(items))
	for _, it := range items {
		out = append(out, menuItemResp{
			ID: it.ID, Name: it.Name, PriceCents: it.PriceCents,
			Price: amount(it.PriceCents), Available: it.Available,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) listOptions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	opts, err := h.Menu.Options(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"options": opts})
}
