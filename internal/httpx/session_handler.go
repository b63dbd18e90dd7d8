package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/ariefcatur/go-kot-pos/internal/kot"
	"github.com/ariefcatur/go-kot-pos/internal/session"
	"github.com/go-chi/chi/v5"
	"net/http"
	"net/url"
	"time"
)

type lineResp struct {
	Key        string  `json:"key"`
	ItemID     string  `json:"item_id"`
	Name       string  `json:"name"`
	PriceCents int64   `json:"price_cents"`
	Qty        int     `json:"qty"`
	Option     *string `json:"option"`
	Amount     string  `json:"amount"`
}

type cartResp struct {
	SessionID     string           `json:"session_id"`
	Lines         []lineResp       `json:"lines"`
	TotalCents    int64            `json:"total_cents"`
	Total         string           `json:"total"`
	PaymentState  kot.PaymentState `json:"payment_state"`
	PaymentMethod string           `json:"payment_method,omitempty"`
}

func toCartResp(sid string, cart *kot.Cart, gate *kot.PaymentGate) cartResp {
	lines := cart.Lines()
	out := cartResp{
		SessionID:     sid,
		Lines:         make([]lineResp, 0, len(lines)),
		TotalCents:    cart.TotalCents(),
		PaymentState:  gate.State(),
		PaymentMethod: string(gate.Method()),
	}
	out.Total = amount(out.TotalCents)
	for _, li := range lines {
		out.Lines = append(out.Lines, lineResp{
			Key: li.Key(), ItemID: li.ItemID, Name: li.Name, PriceCents: li.PriceCents,
			Qty: li.Qty, Option: li.Option, Amount: amount(li.AmountCents()),
		})
	}
	return out
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.Sessions.Get(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return s, true
}

// mutate runs fn on the session's order and answers with the resulting cart.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(cart *kot.Cart, gate *kot.PaymentGate) error) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var resp cartResp
	err := s.Do(func(cart *kot.Cart, gate *kot.PaymentGate) error {
		if err := fn(cart, gate); err != nil {
			return err
		}
		resp = toCartResp(s.ID, cart, gate)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Open()
	writeJSON(w, http.StatusCreated, map[string]any{"session_id": s.ID, "created_at": s.CreatedAt})
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	h.Sessions.Close(chi.URLParam(r, "sid"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(*kot.Cart, *kot.PaymentGate) error { return nil })
}

type addItemReq struct {
	ItemID string  `json:"item_id"`
	Option *string `json:"option"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ItemID == "" {
		writeErr(w, http.StatusBadRequest, "missing item_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// price comes from the menu, never from the client
	it, err := h.Menu.GetItem(ctx, req.ItemID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !it.Available {
		writeError(w, fmt.Errorf("%w: %s", errItemUnavailable, it.ID))
		return
	}
	line := kot.LineItem{ItemID: it.ID, Name: it.Name, PriceCents: it.PriceCents}
	h.mutate(w, r, func(cart *kot.Cart, _ *kot.PaymentGate) error {
		return cart.Add(line, req.Option)
	})
}

func lineKey(r *http.Request) (string, error) {
	return url.PathUnescape(chi.URLParam(r, "key"))
}

type setQtyReq struct {
	Qty int `json:"qty"`
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQtyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	key, err := lineKey(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid line key")
		return
	}
	h.mutate(w, r, func(cart *kot.Cart, _ *kot.PaymentGate) error {
		return cart.SetQuantity(key, req.Qty)
	})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	key, err := lineKey(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid line key")
		return
	}
	h.mutate(w, r, func(cart *kot.Cart, _ *kot.PaymentGate) error {
		cart.Remove(key)
		return nil
	})
}

type methodReq struct {
	Method string `json:"method"`
}

func (h *Handler) selectMethod(w http.ResponseWriter, r *http.Request) {
	var req methodReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	m, err := kot.ParsePaymentMethod(req.Method)
	if err != nil {
		writeError(w, err)
		return
	}
	h.mutate(w, r, func(_ *kot.Cart, gate *kot.PaymentGate) error {
		return gate.SelectMethod(m)
	})
}

func (h *Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(_ *kot.Cart, gate *kot.PaymentGate) error {
		return gate.Confirm()
	})
}

func (h *Handler) cancelPayment(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(_ *kot.Cart, gate *kot.PaymentGate) error {
		gate.Cancel()
		return nil
	})
}
