package httpx

import (
	"context"
	"github.com/ariefcatur/go-kot-pos/internal/kot"
	"github.com/ariefcatur/go-kot-pos/internal/menu"
	"github.com/ariefcatur/go-kot-pos/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"time"
)

type MenuReader interface {
	ListCategories(ctx context.Context) ([]menu.Category, error)
	ListItems(ctx context.Context, categoryID string) ([]menu.Item, error)
	GetItem(ctx context.Context, id string) (menu.Item, error)
	Options(ctx context.Context, itemID string) ([]string, error)
}

type TicketReader interface {
	Get(ctx context.Context, id string) (kot.Ticket, error)
	ListByPrefix(ctx context.Context, prefix string) ([]kot.Ticket, error)
}

// Handler serves the terminal API. Redis is optional; without it commits
// are not idempotent across retries and tickets are read from the store.
type Handler struct {
	Sessions  *session.Registry
	Menu      MenuReader
	Committer *kot.Committer
	Tickets   TicketReader
	Redis     *redis.Client
	Location  *time.Location
	Now       func() time.Time
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/menu", func(r chi.Router) {
		r.Get("/categories", h.listCategories)
		r.Get("/categories/{id}/items", h.listItems)
		r.Get("/items/{id}/options", h.listOptions)
	})

	r.Post("/sessions", h.openSession)
	r.Route("/sessions/{sid}", func(r chi.Router) {
		r.Delete("/", h.closeSession)
		r.Get("/cart", h.getCart)
		r.Post("/items", h.addItem)
		r.Put("/items/{key}", h.setQuantity)
		r.Delete("/items/{key}", h.removeItem)
		r.Post("/payment/method", h.selectMethod)
		r.Post("/payment/confirm", h.confirmPayment)
		r.Post("/payment/cancel", h.cancelPayment)
		r.Post("/commit", h.commit)
	})

	r.Get("/kots", h.listTickets)
	r.Get("/kots/{id}", h.getTicket)
}

func (h *Handler) now() time.Time {
	t := time.Now()
	if h.Now != nil {
		t = h.Now()
	}
	if h.Location != nil {
		t = t.In(h.Location)
	}
	return t
}

// amount renders pence as a fixed two-decimal string for JSON.
func amount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
