package kot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

const DefaultCommitAttempts = 3

// TicketStore is the persisted KOT collection. CreateIfAbsent must return
// ErrDuplicateKey instead of overwriting an existing ticket.
type TicketStore interface {
	IDLister
	CreateIfAbsent(ctx context.Context, t Ticket) error
}

// Printer hands a committed ticket to the kitchen.
type Printer interface {
	Print(ctx context.Context, t Ticket) error
}

type CommitResult struct {
	Ticket Ticket
	// PrintErr is set when the ticket was stored but could not be printed.
	PrintErr error
}

type Committer struct {
	Sequencer   *Sequencer
	Store       TicketStore
	Printer     Printer
	MaxAttempts int
	Now         func() time.Time
}

// Commit turns a paid cart into a ticket. The id is allocated from the
// store, and a duplicate-key rejection from a concurrent terminal triggers a
// fresh allocation, up to MaxAttempts. On success the cart and gate are
// cleared and the ticket is printed; a print failure does not undo the
// commit.
func (c *Committer) Commit(ctx context.Context, cart *Cart, gate *PaymentGate, today time.Time) (CommitResult, error) {
	var errs []error
	if !gate.Confirmed() {
		errs = append(errs, ErrPaymentNotConfirmed)
	}
	if cart.IsEmpty() {
		errs = append(errs, ErrEmptyOrder)
	}
	if len(errs) > 0 {
		return CommitResult{}, errors.Join(errs...)
	}

	items := cart.Lines()
	for _, it := range items {
		if err := it.validate(); err != nil {
			return CommitResult{}, err
		}
	}

	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultCommitAttempts
	}

	var t Ticket
	stored := false
	for attempt := 1; attempt <= attempts; attempt++ {
		id, err := c.Sequencer.Next(ctx, today)
		if err != nil {
			return CommitResult{}, err
		}
		t = Ticket{
			ID:            id,
			Items:         items,
			TotalCents:    sumCents(items),
			PaymentMethod: gate.Method(),
			CreatedAt:     c.now(),
		}
		err = c.Store.CreateIfAbsent(ctx, t)
		if err == nil {
			stored = true
			break
		}
		if !errors.Is(err, ErrDuplicateKey) {
			if errors.Is(err, ErrStoreUnavailable) {
				return CommitResult{}, err
			}
			return CommitResult{}, fmt.Errorf("%w: persist %s: %w", ErrStoreUnavailable, id, err)
		}
		log.Printf("kot: id %s already taken, reallocating (attempt %d/%d)", id, attempt, attempts)
	}
	if !stored {
		return CommitResult{}, fmt.Errorf("%w after %d attempts", ErrTicketIDCollision, attempts)
	}

	gate.Reset()
	cart.Clear()

	res := CommitResult{Ticket: t}
	if c.Printer != nil {
		if err := c.Printer.Print(ctx, t); err != nil {
			log.Printf("warn: kot %s committed but not printed: %v", t.ID, err)
			res.PrintErr = err
		}
	}
	return res, nil
}

func (c *Committer) now() time.Time {
	if c.Now != nil {
		return c.Now().UTC()
	}
	return time.Now().UTC()
}
