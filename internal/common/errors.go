// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound = errors.New("not found")

	// Classifier errors.
	ErrClassificationFailed = errors.New("classification failed")
	ErrEmptyDocument        = errors.New("document has no content")

	// Processing errors.
	ErrAlreadyProcessed = errors.New("document already processed")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// RemoteFault wraps a failed call against the document store. It is
// recoverable at the per-kind granularity: a reconciliation session records
// it and moves on to the next entity kind.
type RemoteFault struct {
	Err        error
	Op         string
	StatusCode int
}

func (e *RemoteFault) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteFault) Unwrap() error {
	return e.Err
}

// NewRemoteFault wraps err as a remote-store fault for the named operation.
func NewRemoteFault(op string, statusCode int, err error) error {
	return &RemoteFault{Op: op, StatusCode: statusCode, Err: err}
}

// IsRemoteFault reports whether err is (or wraps) a document-store fault.
func IsRemoteFault(err error) bool {
	var rf *RemoteFault
	return errors.As(err, &rf)
}
