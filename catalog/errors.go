package catalog

import (
	"errors"
	"fmt"
)

// ErrorKind classifies catalog failures by how the caller must react to them
type ErrorKind int

const (
	// KindConnection: the library file is missing, unreadable or not a database
	KindConnection ErrorKind = iota
	// KindQuery: a query against the catalog failed; the run continues with no rows
	KindQuery
	// KindDateConversion: a stored timestamp could not be converted; rendered as a placeholder
	KindDateConversion
	// KindOutputWrite: the report destination could not be written
	KindOutputWrite
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindQuery:
		return "query"
	case KindDateConversion:
		return "date conversion"
	case KindOutputWrite:
		return "output write"
	default:
		return "unknown"
	}
}

// Error is a catalog failure tagged with its kind
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fatal reports whether the failure must abort the run
func (e *Error) Fatal() bool {
	return e.Kind == KindConnection || e.Kind == KindOutputWrite
}

// NewError wraps err with a kind and operation name
func NewError(kind ErrorKind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// IsKind reports whether err is a catalog Error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsFatal reports whether err should stop the run. Errors that are not
// catalog Errors are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Fatal()
	}
	return true
}
