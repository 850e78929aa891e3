package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Fallback display strings, one per failure class.
const (
	MsgServerError = "Server error occurred"
	MsgNoResponse  = "Unable to connect to server. Please check your connection."
	MsgUnexpected  = "An unexpected error occurred"
)

// StatusError is returned when the backend responded with an error status.
// Message carries the message or error field extracted from the JSON body,
// or empty if the body had neither.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// TransportError is returned when the request was sent but no usable response
// came back (connection refused, timeout, DNS failure).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "backend unreachable: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// RequestError is returned when the request could not even be constructed or
// the response could not be decoded.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return "request failed locally: " + e.Err.Error() }
func (e *RequestError) Unwrap() error { return e.Err }

// errorBody is the shape backends use for error payloads.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// newStatusError builds a StatusError from a response body, preferring the
// message field over the error field.
func newStatusError(statusCode int, body []byte) *StatusError {
	var eb errorBody
	if len(body) > 0 {
		_ = json.Unmarshal(body, &eb)
	}
	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}
	return &StatusError{StatusCode: statusCode, Message: msg}
}

// Normalize maps any error from a Client call to the single string shown to
// the admin. Raw errors never reach a template.
func Normalize(err error) string {
	if err == nil {
		return ""
	}

	var se *StatusError
	if errors.As(err, &se) {
		if se.Message != "" {
			return se.Message
		}
		return MsgServerError
	}

	var te *TransportError
	if errors.As(err, &te) {
		return MsgNoResponse
	}

	return MsgUnexpected
}
