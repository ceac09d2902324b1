package orders

import (
	"errors"
	"fmt"
)

// ErrOrderNotFound is returned by the query service for unknown order IDs.
var ErrOrderNotFound = errors.New("order not found")

// ValidationError reports a malformed cart. These are client errors and are
// never retried; no write is attempted once one is raised.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ReferenceError reports an unknown user or menu item ID. Like validation
// errors these are client errors, even when detected by the database's
// referential constraints mid-transaction.
type ReferenceError struct {
	Entity string
	ID     int64
}

func (e ReferenceError) Error() string {
	return fmt.Sprintf("unknown %s: %d", e.Entity, e.ID)
}

// InvalidTransitionError reports a status change the lifecycle does not
// allow.
type InvalidTransitionError struct {
	From, To Status
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// IsClientError reports whether err should surface as a 400 rather than an
// opaque server error.
func IsClientError(err error) bool {
	var ve ValidationError
	var re ReferenceError
	var te InvalidTransitionError
	return errors.As(err, &ve) || errors.As(err, &re) || errors.As(err, &te)
}
