package httpx

import (
	"context"
	"errors"
	"fmt"
	"github.com/ariefcatur/go-kot-pos/internal/kot"
	"github.com/ariefcatur/go-kot-pos/internal/printing"
	"github.com/ariefcatur/go-kot-pos/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"log"
	"net/http"
	"time"
)

type ticketResp struct {
	kot.Ticket
	Total        string `json:"total"`
	PrintWarning string `json:"print_warning,omitempty"`
	Replayed     bool   `json:"replayed,omitempty"`
}

func toTicketResp(t kot.Ticket) ticketResp {
	return ticketResp{Ticket: t, Total: amount(t.TotalCents)}
}

func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	ctx = printing.WithTraceID(ctx, middleware.GetReqID(r.Context()))

	var idemKey string
	if k := r.Header.Get("Idempotency-Key"); k != "" && h.Redis != nil {
		idemKey = fmt.Sprintf(redisx.KeyIdemCommit, k)
		won, err := redisx.Claim(ctx, h.Redis, idemKey, idemPending, redisx.TTLIdempotency)
		if err != nil {
			// commit without replay protection
			log.Printf("commit: idempotency unavailable: %v", err)
			idemKey = ""
		} else if !won {
			h.replay(ctx, w, idemKey)
			return
		}
	}

	var res kot.CommitResult
	err := s.Do(func(cart *kot.Cart, gate *kot.PaymentGate) error {
		var err error
		res, err = h.Committer.Commit(ctx, cart, gate, h.now())
		return err
	})
	if err != nil {
		if idemKey != "" {
			_ = h.Redis.Del(context.WithoutCancel(ctx), idemKey).Err()
		}
		writeError(w, err)
		return
	}

	if h.Redis != nil {
		if idemKey != "" {
			_ = h.Redis.Set(context.WithoutCancel(ctx), idemKey, res.Ticket.ID, redisx.TTLIdempotency).Err()
		}
		_ = redisx.SetJSON(ctx, h.Redis, fmt.Sprintf(redisx.KeyTicket, res.Ticket.ID), res.Ticket, redisx.TTLTicketCache)
	}

	resp := toTicketResp(res.Ticket)
	if res.PrintErr != nil {
		resp.PrintWarning = res.PrintErr.Error()
	}
	writeJSON(w, http.StatusCreated, resp)
}

const idemPending = "pending"

// replay answers a commit whose Idempotency-Key is already claimed.
func (h *Handler) replay(ctx context.Context, w http.ResponseWriter, key string) {
	id, err := h.Redis.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		writeErr(w, http.StatusConflict, "commit failed, retry")
		return
	case err != nil:
		writeError(w, fmt.Errorf("%w: %v", kot.ErrStoreUnavailable, err))
		return
	case id == idemPending:
		writeErr(w, http.StatusConflict, "commit in progress")
		return
	}
	t, err := h.ticket(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := toTicketResp(t)
	resp.Replayed = true
	writeJSON(w, http.StatusOK, resp)
}

// ticket reads through the Redis cache.
func (h *Handler) ticket(ctx context.Context, id string) (kot.Ticket, error) {
	key := fmt.Sprintf(redisx.KeyTicket, id)
	if h.Redis != nil {
		var t kot.Ticket
		if ok, err := redisx.GetJSON(ctx, h.Redis, key, &t); err == nil && ok {
			return t, nil
		}
	}
	t, err := h.Tickets.Get(ctx, id)
	if err != nil {
		return kot.Ticket{}, err
	}
	if h.Redis != nil {
		_ = redisx.SetJSON(ctx, h.Redis, key, t, redisx.TTLTicketCache)
	}
	return t, nil
}

func (h *Handler) getTicket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !kot.ValidID(id) {
		writeErr(w, http.StatusBadRequest, "kot id must be 10 digits")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	t, err := h.ticket(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTicketResp(t))
}

// listTickets returns one day's tickets; ?date=DDMMYY, default today.
func (h *Handler) listTickets(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("date")
	if prefix == "" {
		prefix = kot.Prefix(h.now())
	}
	if _, err := time.Parse("020106", prefix); err != nil {
		writeErr(w, http.StatusBadRequest, "date must be DDMMYY")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ts, err := h.Tickets.ListByPrefix(ctx, prefix)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]ticketResp, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTicketResp(t))
	}
	writeJSON(w, http.StatusOK, out)
}
