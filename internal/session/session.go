// Package session keeps the in-progress order of each operator terminal.
package session

import (
	"errors"
	"github.com/ariefcatur/go-kot-pos/internal/kot"
	"github.com/google/uuid"
	"sync"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Session pairs one cart with one payment gate. Calls through Do are
// serialized, so a terminal cannot race itself.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu   sync.Mutex
	cart *kot.Cart
	gate *kot.PaymentGate
}

func (s *Session) Do(fn func(cart *kot.Cart, gate *kot.PaymentGate) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.cart, s.gate)
}

type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[string]*Session{}}
}

func (r *Registry) Open() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		cart:      kot.NewCart(),
		gate:      kot.NewPaymentGate(),
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Close discards the session and whatever order it held.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
