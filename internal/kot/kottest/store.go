// Package kottest provides an in-memory ticket store for tests.
package kottest

import (
	"context"
	"fmt"
	"github.com/ariefcatur/go-kot-pos/internal/kot"
	"sort"
	"strings"
	"sync"
)

// Store keeps tickets in a map and rejects duplicate ids like the Postgres
// repository does. ListErr and CreateErr force failures.
type Store struct {
	mu      sync.Mutex
	tickets map[string]kot.Ticket

	ListErr   error
	CreateErr error
	// BeforeCreate runs before each insert, outside the lock.
	BeforeCreate func(t kot.Ticket)

	Creates int
}

func NewStore(ids ...string) *Store {
	s := &Store{tickets: map[string]kot.Ticket{}}
	for _, id := range ids {
		s.tickets[id] = kot.Ticket{ID: id}
	}
	return s
}

func (s *Store) ListIDsDescending(ctx context.Context, prefix string, limit int) ([]string, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id := range s.tickets {
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (s *Store) CreateIfAbsent(ctx context.Context, t kot.Ticket) error {
	if s.BeforeCreate != nil {
		s.BeforeCreate(t)
	}
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Creates++
	if _, ok := s.tickets[t.ID]; ok {
		return fmt.Errorf("%w: %s", kot.ErrDuplicateKey, t.ID)
	}
	t.Items = t.Lines()
	s.tickets[t.ID] = t
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (kot.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return kot.Ticket{}, fmt.Errorf("%w: %s", kot.ErrTicketNotFound, id)
	}
	return t, nil
}

func (s *Store) ListByPrefix(ctx context.Context, prefix string) ([]kot.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []kot.Ticket
	for id, t := range s.tickets {
		if strings.HasPrefix(id, prefix) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Put stores t directly, overwriting, as another terminal would have.
func (s *Store) Put(t kot.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[t.ID] = t
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickets)
}

// Printer records printed tickets.
type Printer struct {
	mu      sync.Mutex
	Err     error
	Printed []kot.Ticket
}

func (p *Printer) Print(ctx context.Context, t kot.Ticket) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Printed = append(p.Printed, t)
	return nil
}
