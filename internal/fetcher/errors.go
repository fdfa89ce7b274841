package fetcher

import (
	"errors"
	"fmt"
)

// ErrExhausted is returned by Get when every attempt failed.
var ErrExhausted = errors.New("retries exhausted")

// StatusError is a response with a status other than 200.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("received non-200 status: %d", e.Code)
}

// TransportError wraps a failure to obtain or read a response: DNS,
// connection, timeout, or body decoding.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError is a 200 response whose body is not valid JSON.
type ParseError struct {
	Size int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("response body is not valid JSON (%d bytes)", e.Size)
}
