package api

import (
	"fmt"
	"net/http"
)

// Error is a non-success response from the backend.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(statusCode int, body []byte) *Error {
	msg := http.StatusText(statusCode)
	if er, ok := decodeErrorBody(body); ok {
		msg = er
	}
	if msg == "" {
		msg = fmt.Sprintf("status %d", statusCode)
	}
	return &Error{StatusCode: statusCode, Message: msg}
}

// NetworkError wraps a failure to get any response at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "Network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
