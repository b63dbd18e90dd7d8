package httpx

import (
	"errors"
	"github.com/ariefcatur/go-kot-pos/internal/kot"
	"github.com/ariefcatur/go-kot-pos/internal/menu"
	"github.com/ariefcatur/go-kot-pos/internal/session"
	"log"
	"net/http"
)

var errItemUnavailable = errors.New("menu item unavailable")

func statusOf(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, menu.ErrNotFound),
		errors.Is(err, kot.ErrItemNotFound),
		errors.Is(err, kot.ErrTicketNotFound):
		return http.StatusNotFound
	case errors.Is(err, kot.ErrTicketIDCollision),
		errors.Is(err, kot.ErrSequenceExhausted),
		errors.Is(err, errItemUnavailable):
		return http.StatusConflict
	case kot.IsValidation(err):
		return http.StatusUnprocessableEntity
	case kot.IsStore(err):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		log.Printf("error: %v", err)
	}
	writeErr(w, code, err.Error())
}
