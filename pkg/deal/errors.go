package deal

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no deal exists for the given ID.
var ErrNotFound = errors.New("deal not found")

// ErrExists is returned when creating a deal whose ID is already taken.
var ErrExists = errors.New("deal already exists")

// ErrInvalidTransition is returned when the requested target state is not
// adjacent to the deal's current state. Raised before any mutation; the
// record is left unchanged.
var ErrInvalidTransition = errors.New("invalid transition")

// invalidTransition wraps ErrInvalidTransition with the offending edge.
func invalidTransition(from, to State) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
