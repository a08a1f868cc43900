package orders

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound marks a transition against an unknown order.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidStatus marks an unknown status value.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrNoOpTransition marks a status set to its current value.
	ErrNoOpTransition = errors.New("order already in requested status")
)

// InsufficientStockError rejects a COMPLETED reversal that would drive a
// variant's stock negative. The whole transition rolls back; no partial
// stock change commits.
type InsufficientStockError struct {
	VariantCode string
	Required    int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: need %d, have %d", e.VariantCode, e.Required, e.Available)
}
