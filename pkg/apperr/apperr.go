// Package apperr defines the error taxonomy shared by the catalog and order
// pipelines. Callers classify failures with errors.As and decide whether to
// degrade, retry, or surface an indeterminate outcome.
package apperr

import "fmt"

// TransportError wraps a network-level failure: the request never completed.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPStatusError is returned when the backend answered outside the 2xx range.
type HTTPStatusError struct {
	Op     string
	Status int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
}

// ParseError is returned when a response body could not be decoded as the
// expected JSON envelope or CSV document.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError is a checkout-field failure. It never reaches the network
// layer; the submit path rejects the order before building a request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// ServerError carries an explicit status:"error" envelope from the backend.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "server reported an error"
}
