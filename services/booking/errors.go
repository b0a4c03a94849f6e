package booking

import "fmt"

// NotFoundError covers a missing schedule, day, slot, or booking. Surfaced
// as a 404-equivalent and never retried automatically.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError means the slot was already claimed by another customer at
// claim time. Callers may retry against a different slot, never the same one.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// PolicyViolationError covers cancellation outside the allowed window, a
// cancel on an already-cancelled booking, or an illegal state transition.
// Terminal, non-retryable.
type PolicyViolationError struct {
	Message string
}

func (e *PolicyViolationError) Error() string {
	return e.Message
}

// ValidationError covers malformed service selections: unknown service or
// sub-service ids, non-numeric stored prices. Fatal for the current request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InternalError wraps an unexpected persistence failure, including the
// orphaned-slot failure mode after a successful claim. Requires operator
// attention, not automatic recovery.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}
