package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports an operation referencing a medicine or sale id
	// that is not in the catalog or sales log.
	ErrNotFound = errors.New("not found")

	// ErrOutOfStock reports an add-to-bill against a medicine whose stock
	// is exhausted (or whose line already holds all available stock).
	ErrOutOfStock = errors.New("out of stock")

	// ErrExceedsStock reports a quantity change beyond current stock.
	ErrExceedsStock = errors.New("quantity exceeds available stock")

	// ErrEmptySession reports a checkout attempted with no bill lines.
	ErrEmptySession = errors.New("billing session is empty")
)

// ValidationError rejects a create or edit, citing every violated field.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid medicine data"
	}
	return fmt.Sprintf("invalid medicine data: %s", strings.Join(e.Fields, ", "))
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
