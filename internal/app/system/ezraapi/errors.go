// internal/app/system/ezraapi/errors.go
package ezraapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized means no usable bearer token was available, or the EZRA
// API rejected the one we sent (HTTP 401).
var ErrUnauthorized = errors.New("ezraapi: unauthorized")

// RequestFailedError is returned for any non-2xx response, and for 2xx
// responses whose body could not be decoded (Err carries the cause).
type RequestFailedError struct {
	Resource   string
	Method     string
	Path       string
	StatusCode int
	Err        error
}

func (e *RequestFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ezraapi: %s request failed: %s %s (%d): %v", e.Resource, e.Method, e.Path, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("ezraapi: %s request failed: %s %s (%d)", e.Resource, e.Method, e.Path, e.StatusCode)
}

func (e *RequestFailedError) Unwrap() error { return e.Err }

// Is makes a 401 response match ErrUnauthorized.
func (e *RequestFailedError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// NetworkError wraps a transport-level failure (DNS, refused connection,
// reset, context deadline while the request was in flight).
type NetworkError struct {
	Resource string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("ezraapi: %s network error: %v", e.Resource, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsRetryable reports whether a failed call is worth another attempt:
// network failures, 5xx and 429 responses. Auth failures, other 4xx,
// undecodable bodies and caller cancellation are final.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrUnauthorized) {
		return false
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return true
	}
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		if rf.Err != nil {
			return false
		}
		return rf.StatusCode >= 500 || rf.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// StatusCode returns the HTTP status of a RequestFailedError, or 0.
func StatusCode(err error) int {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.StatusCode
	}
	return 0
}
