// Package errors defines the error kinds returned across component
// boundaries. Only the chat service turns a kind into user-facing text.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a stable error code.
type Kind string

const (
	KindDataset      Kind = "DATASET_FAILED"
	KindClassifier   Kind = "CLASSIFIER_FAILED"
	KindEmptyQuery   Kind = "EMPTY_QUERY"
	KindLog          Kind = "LOG_FAILED"
	KindSessionStore Kind = "SESSION_STORE_FAILED"
	KindInternal     Kind = "INTERNAL"
)

// Error carries a Kind and the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with a kind and op. A nil err still yields an error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf is New with a formatted cause.
func Errorf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the outermost Kind in err's chain, KindInternal for
// untyped errors and "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
