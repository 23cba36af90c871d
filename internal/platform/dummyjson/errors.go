package dummyjson

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches HTTPStatusError values carrying a 404.
var ErrNotFound = errors.New("products api: not found")

// NetworkError wraps a transport failure (DNS, connection reset, timeout).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: network: %v", e.Op, e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPStatusError is returned for non-2xx responses.
type HTTPStatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *HTTPStatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// DecodeError reports a response body that is not the expected JSON.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("%s: decode response: %v", e.Op, e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }
