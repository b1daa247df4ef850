package asaas

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors.
var (
	ErrThrottled  = errors.New("asaas: throttled")
	ErrNotFound   = errors.New("asaas: not found")
	ErrValidation = errors.New("asaas: validation failed")
	ErrTransport  = errors.New("asaas: transport failure")
)

// ThrottleError is returned for 403 and 429 responses.
type ThrottleError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ThrottleError) Error() string {
	return fmt.Sprintf("%s: throttled with status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *ThrottleError) Is(target error) bool { return target == ErrThrottled }

// NotFoundError is returned for 404 responses.
type NotFoundError struct {
	Op   string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s not found", e.Op, e.Path)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError is returned when the provider rejects the request or the
// response body cannot be decoded.
type ValidationError struct {
	Op         string
	StatusCode int
	Messages   []string
	Err        error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: invalid response: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: rejected with status %d: %v", e.Op, e.StatusCode, e.Messages)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Err }

// TransportError is returned for network failures, 5xx responses and an open circuit.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: server error %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func (e *TransportError) Unwrap() error { return e.Err }

// Retryable reports whether err is worth another attempt.
func Retryable(err error) bool {
	return errors.Is(err, ErrThrottled) || errors.Is(err, ErrTransport)
}
