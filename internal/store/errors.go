package store

import (
	"errors"

	"github.com/erazemk/skrinja/internal/model"
)

// Domain errors. Storage failures are wrapped separately and never match these.
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
)

// isDomainError reports whether err is an expected outcome rather than a
// storage failure.
func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInsufficientQuantity) ||
		errors.Is(err, model.ErrInvalidInput)
}
