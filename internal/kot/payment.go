package kot

import (
	"fmt"
	"strings"
)

type PaymentMethod string

const (
	MethodCash   PaymentMethod = "Cash"
	MethodCard   PaymentMethod = "Card"
	MethodMobile PaymentMethod = "Mobile"
)

var knownMethods = map[PaymentMethod]bool{
	MethodCash:   true,
	MethodCard:   true,
	MethodMobile: true,
}

// ParsePaymentMethod accepts a method name case-insensitively.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for m := range knownMethods {
		if strings.EqualFold(string(m), strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, s)
}

type PaymentState string

const (
	PaymentUnpaid         PaymentState = "UNPAID"
	PaymentMethodSelected PaymentState = "METHOD_SELECTED"
	PaymentConfirmed      PaymentState = "CONFIRMED"
)

var validNext = map[PaymentState]map[PaymentState]bool{
	PaymentUnpaid:         {PaymentMethodSelected: true},
	PaymentMethodSelected: {PaymentMethodSelected: true, PaymentConfirmed: true, PaymentUnpaid: true},
	PaymentConfirmed:      {PaymentUnpaid: true},
}

func CanTransition(from, to PaymentState) bool {
	return validNext[from][to]
}

// PaymentGate tracks the payment for the order in progress. A ticket can only
// be committed while the gate is confirmed.
type PaymentGate struct {
	state  PaymentState
	method PaymentMethod
}

func NewPaymentGate() *PaymentGate {
	return &PaymentGate{state: PaymentUnpaid}
}

func (g *PaymentGate) State() PaymentState {
	if g.state == "" {
		return PaymentUnpaid
	}
	return g.state
}

// Method is empty while unpaid.
func (g *PaymentGate) Method() PaymentMethod { return g.method }

func (g *PaymentGate) Confirmed() bool { return g.State() == PaymentConfirmed }

// SelectMethod picks or changes the method. Once confirmed the method is
// fixed until Cancel or Reset.
func (g *PaymentGate) SelectMethod(m PaymentMethod) error {
	if !knownMethods[m] {
		return fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, m)
	}
	if !CanTransition(g.State(), PaymentMethodSelected) {
		return ErrPaymentConfirmed
	}
	g.state, g.method = PaymentMethodSelected, m
	return nil
}

func (g *PaymentGate) Confirm() error {
	if g.State() != PaymentMethodSelected {
		return ErrNoMethodSelected
	}
	g.state = PaymentConfirmed
	return nil
}

// Cancel returns the gate to unpaid from any state, including a confirmed
// payment that has not been committed yet.
func (g *PaymentGate) Cancel() {
	g.state, g.method = PaymentUnpaid, ""
}

// Reset clears the gate for the next order after a successful commit.
func (g *PaymentGate) Reset() {
	g.state, g.method = PaymentUnpaid, ""
}
