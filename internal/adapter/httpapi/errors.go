package httpapi

import (
	"errors"
	"net/http"

	"github.com/paydrop/paydrop-backend/internal/domain"
)

// statusForError maps the domain error taxonomy onto HTTP statuses and
// stable machine-readable codes.
func statusForError(err error) (int, string) {
	switch {
	// Validation errors
	case errors.Is(err, domain.ErrNoRecipients):
		return http.StatusBadRequest, "NO_RECIPIENTS"
	case errors.Is(err, domain.ErrNoAmounts):
		return http.StatusBadRequest, "NO_AMOUNTS"
	case errors.Is(err, domain.ErrLengthMismatch):
		return http.StatusBadRequest, "LENGTH_MISMATCH"
	case errors.Is(err, domain.ErrTooManyRecipients):
		return http.StatusBadRequest, "TOO_MANY_RECIPIENTS"

	// Funds errors
	case errors.Is(err, domain.ErrInsufficientValue):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_VALUE"
	case errors.Is(err, domain.ErrInsufficientAllowance):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_ALLOWANCE"
	case errors.Is(err, domain.ErrInsufficientAmount):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_AMOUNT"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE"

	// Access errors
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden, "NOT_OWNER"
	case errors.Is(err, domain.ErrPaused):
		return http.StatusServiceUnavailable, "PAUSED"

	// Transfer errors
	case errors.Is(err, domain.ErrRecipientRejected):
		return http.StatusUnprocessableEntity, "RECIPIENT_REJECTED"
	case errors.Is(err, domain.ErrZeroAddressRecipient):
		return http.StatusUnprocessableEntity, "ZERO_ADDRESS_RECIPIENT"
	case errors.Is(err, domain.ErrNegativeAmount):
		return http.StatusBadRequest, "NEGATIVE_AMOUNT"

	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
