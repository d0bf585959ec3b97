package service

import (
	"errors"
	"fmt"
)

// ErrUnauthorized marks a failure caused by missing, expired or rejected
// credentials. Backends wrap it inside a RemoteError.
var ErrUnauthorized = errors.New("unauthorized")

// RemoteError is a failed remote table operation.
// Message is the human-readable text shown to the user as-is.
type RemoteError struct {
	Op      string // "list", "insert", "update" or "delete"
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Op + " failed"
}

func (e *RemoteError) Unwrap() error { return e.Err }

// NewRemoteError builds a RemoteError for op from a backend error.
// A nil err yields nil.
func NewRemoteError(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return err
	}
	return &RemoteError{Op: op, Message: err.Error(), Err: err}
}

// IsUnauthorized reports whether err is an authorization failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// DecodeError reports a row returned by the store that does not match the
// task schema.
type DecodeError struct {
	Row    int    // 0-based index in the returned collection, -1 for the payload itself
	Field  string // empty when the row itself is malformed
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Row < 0 {
		return "invalid task list: " + e.Reason
	}
	if e.Field == "" {
		return fmt.Sprintf("invalid task row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("invalid task row %d: field %q: %s", e.Row, e.Field, e.Reason)
}
