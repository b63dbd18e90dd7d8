package kot

import "errors"

// Validation errors: the operator can fix these, nothing is retried.
var (
	ErrEmptyOrder           = errors.New("order has no items")
	ErrItemNotFound         = errors.New("item not in cart")
	ErrNoMethodSelected     = errors.New("no payment method selected")
	ErrPaymentNotConfirmed  = errors.New("payment not confirmed")
	ErrPaymentConfirmed     = errors.New("payment already confirmed")
	ErrInvalidLineItem      = errors.New("invalid line item")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

// Store errors.
var (
	ErrSequencerUnavailable = errors.New("ticket sequencer unavailable")
	ErrStoreUnavailable     = errors.New("ticket store unavailable")
	ErrDuplicateKey         = errors.New("ticket id already exists")
	ErrTicketNotFound       = errors.New("ticket not found")
)

var (
	ErrTicketIDCollision = errors.New("ticket id collision, retries exhausted")
	ErrSequenceExhausted = errors.New("daily ticket sequence exhausted")
)

func IsValidation(err error) bool {
	for _, target := range []error{
		ErrEmptyOrder, ErrItemNotFound, ErrNoMethodSelected,
		ErrPaymentNotConfirmed, ErrPaymentConfirmed, ErrInvalidLineItem, ErrUnknownPaymentMethod,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func IsStore(err error) bool {
	return errors.Is(err, ErrSequencerUnavailable) ||
		errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, ErrDuplicateKey)
}
