package kot

import (
	"fmt"
	"strings"
	"time"
)

// LineItem is one menu item in an order. Option is nil when the item was
// added without a choice (no sauce), which is distinct from an empty string.
type LineItem struct {
	ItemID     string  `json:"item_id"`
	Name       string  `json:"name"`
	PriceCents int64   `json:"price_cents"`
	Qty        int     `json:"qty"`
	Option     *string `json:"option"`
}

// Key addresses a line inside a cart: the same item with a different option
// is a different line.
func (li LineItem) Key() string {
	return LineKey(li.ItemID, li.Option)
}

func (li LineItem) AmountCents() int64 {
	return li.PriceCents * int64(li.Qty)
}

func (li LineItem) validate() error {
	if li.ItemID == "" {
		return fmt.Errorf("%w: missing item id", ErrInvalidLineItem)
	}
	if li.PriceCents < 0 {
		return fmt.Errorf("%w: negative price for %s", ErrInvalidLineItem, li.ItemID)
	}
	if li.Qty < 1 {
		return fmt.Errorf("%w: qty %d for %s", ErrInvalidLineItem, li.Qty, li.ItemID)
	}
	return nil
}

func (li LineItem) clone() LineItem {
	if li.Option != nil {
		opt := *li.Option
		li.Option = &opt
	}
	return li
}

var keyEscaper = strings.NewReplacer("%", "%25", "|", "%7C")

// LineKey builds the cart key for an item and optional option. The item id
// is escaped so the first "|" always separates it from the option.
func LineKey(itemID string, option *string) string {
	id := keyEscaper.Replace(itemID)
	if option == nil {
		return id
	}
	return id + "|" + *option
}

func sameLine(a, b LineItem) bool {
	if a.ItemID != b.ItemID || (a.Option == nil) != (b.Option == nil) {
		return false
	}
	return a.Option == nil || *a.Option == *b.Option
}

// Ticket is a committed Kitchen Order Ticket. It is never modified after the
// store accepts it.
type Ticket struct {
	ID            string        `json:"kot_id"`
	Items         []LineItem    `json:"items"`
	TotalCents    int64         `json:"total_cents"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Lines returns a copy of the ticket's items.
func (t Ticket) Lines() []LineItem {
	out := make([]LineItem, len(t.Items))
	for i, it := range t.Items {
		out[i] = it.clone()
	}
	return out
}

func sumCents(items []LineItem) int64 {
	var total int64
	for _, it := range items {
		total += it.AmountCents()
	}
	return total
}

// Opt is a helper for optional option values.
func Opt(s string) *string { return &s }
