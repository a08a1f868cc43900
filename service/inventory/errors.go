package inventory

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the inventory services. Handlers map these to
// HTTP statuses; nothing here is retried automatically.
var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation error")
	// ErrInvalidVariant marks a SKU that does not exist or is inactive.
	ErrInvalidVariant = errors.New("invalid variant")
	// ErrPriorPeriodMissing marks a rollover with no source-period rows.
	ErrPriorPeriodMissing = errors.New("prior period has no snapshot rows")
	// ErrSnapshotNotFound marks a single edit against a missing snapshot row.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// ValidationError wraps ErrValidation with field-level detail.
func ValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// InvalidVariantError wraps ErrInvalidVariant with the offending code.
func InvalidVariantError(code string) error {
	return fmt.Errorf("%w: %s", ErrInvalidVariant, code)
}
