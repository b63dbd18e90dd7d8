// Package printing turns committed tickets into kitchen receipts and moves
// them from the terminal to the print station.
package printing

import (
	"context"
	"fmt"
	"github.com/ariefcatur/go-kot-pos/internal/kot"
	"github.com/shopspring/decimal"
	"io"
	"strings"
)

const currency = "£"

// Money formats pence as a currency amount with two decimals.
func Money(cents int64) string {
	return currency + decimal.New(cents, -2).StringFixed(2)
}

// Render lays out a ticket the way the kitchen printer expects it.
func Render(t kot.Ticket) string {
	var b strings.Builder
	fmt.Fprintf(&b, "KOT #%s\n", t.ID)
	if !t.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "%s\n", t.CreatedAt.Format("02/01/2006 15:04"))
	}
	b.WriteString("\n")
	for _, it := range t.Items {
		name := fmt.Sprintf("%dx %s", it.Qty, it.Name)
		if it.Option != nil {
			name += " (" + *it.Option + ")"
		}
		fmt.Fprintf(&b, "%-28s %9s\n", name, Money(it.AmountCents()))
	}
	b.WriteString(strings.Repeat("-", 38) + "\n")
	fmt.Fprintf(&b, "%-28s %9s\n", "Total:", Money(t.TotalCents))
	if t.PaymentMethod != "" {
		fmt.Fprintf(&b, "Paid: %s\n", t.PaymentMethod)
	}
	return b.String()
}

// WriterPrinter prints receipts to a writer, e.g. a device file or stdout.
type WriterPrinter struct {
	W io.Writer
}

func (p WriterPrinter) Print(ctx context.Context, t kot.Ticket) error {
	_, err := io.WriteString(p.W, Render(t)+"\n")
	return err
}
