// Package ledger defines the error taxonomy shared by the transactional core.
// Every failure aborts the whole unit of work; the concrete type tells the
// caller (and the HTTP layer) whether the problem is input, state, absence,
// or a concurrent conflict that may be retried by resubmitting.
package ledger

import "fmt"

// ValidationError: empty cart, negative amounts, malformed input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockError names the offending product and both quantities.
type InsufficientStockError struct {
	Product   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Stock insuficiente para %q: disponible %d, solicitado %d",
		e.Product, e.Available, e.Requested)
}

// StateError: an operation that requires an OPEN cash session without one,
// closing an already-closed session, or opening a second session.
type StateError struct {
	Msg string
}

func (e *StateError) Error() string { return e.Msg }

func State(format string, args ...interface{}) *StateError {
	return &StateError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError: referenced entity missing or belonging to another store.
// Cross-tenant lookups are indistinguishable from absence on purpose.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s no encontrado", e.Entity) }

func NotFound(entity string) *NotFoundError { return &NotFoundError{Entity: entity} }

// ConcurrencyError: a concurrent writer changed stock or session state under
// us. The transaction was rolled back; the caller may resubmit.
type ConcurrencyError struct {
	Msg string
}

func (e *ConcurrencyError) Error() string { return e.Msg }

func Conflict(format string, args ...interface{}) *ConcurrencyError {
	return &ConcurrencyError{Msg: fmt.Sprintf(format, args...)}
}
