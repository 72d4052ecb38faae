// Package apperr defines the typed error taxonomy shared by all services.
//
// Every core operation reports failure as one of these kinds so the HTTP
// layer can map it to a transport status without string matching:
//
//	if apperr.KindOf(err) == apperr.KindNotFound { ... }
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidInput
	KindInsufficientStock
	KindConflict
	KindForbidden
	KindUnauthorized
)

// Error is a typed application error with an optional wrapped cause.
type Error struct {
	kind    Kind
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *Error) Unwrap() error { return e.cause }

// Kind returns the error classification.
func (e *Error) Kind() Kind { return e.kind }

// NotFound reports a missing entity, e.g. "product not found".
func NotFound(message string) *Error {
	return &Error{kind: KindNotFound, message: message}
}

// InvalidInput reports a request the caller can fix: missing field,
// non-positive quantity, unknown status value.
func InvalidInput(message string) *Error {
	return &Error{kind: KindInvalidInput, message: message}
}

// Conflict reports a uniqueness violation, e.g. a stock row that already
// exists for a product.
func Conflict(message string) *Error {
	return &Error{kind: KindConflict, message: message}
}

// Forbidden reports an ownership or role check failure.
func Forbidden(message string) *Error {
	return &Error{kind: KindForbidden, message: message}
}

// Unauthorized reports failed authentication, e.g. bad login credentials.
func Unauthorized(message string) *Error {
	return &Error{kind: KindUnauthorized, message: message}
}

// Internal wraps an unexpected persistence or infrastructure failure.
func Internal(message string, cause error) *Error {
	return &Error{kind: KindInternal, message: message, cause: cause}
}

// kinder is implemented by every error type in this package.
type kinder interface{ Kind() Kind }

// KindOf walks the error chain and returns the first classification found.
// Unclassified errors are KindInternal.
func KindOf(err error) Kind {
	var k kinder
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// InsufficientStockError names the offending product and the shortfall so a
// client can retry with an adjusted quantity.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = fmt.Sprintf("product %d", e.ProductID)
	}
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Kind() Kind { return KindInsufficientStock }

// InvalidStatusError enumerates the valid status set alongside the rejected
// value.
type InvalidStatusError struct {
	Status string
	Valid  []string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status %q, valid: %s", e.Status, strings.Join(e.Valid, ", "))
}

func (e *InvalidStatusError) Kind() Kind { return KindInvalidInput }
