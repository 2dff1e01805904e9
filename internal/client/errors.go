package client

import (
	"fmt"
	"net/http"
	"strings"

	"marketplace/internal/api"
)

// TransportError reports a request that never produced an HTTP response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-success HTTP status. Message carries the server's
// error text when it sent one. Unwrap exposes the matching api error for
// 400, 404 and 409 so callers can use errors.As with api types.
type StatusError struct {
	Method  string
	URL     string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, e.Message)
}

func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &api.ValidationError{Message: e.Message}
	case http.StatusNotFound:
		resource := strings.TrimSuffix(e.Message, " not found")
		if resource == "" {
			resource = "resource"
		}
		return &api.NotFoundError{Resource: resource}
	case http.StatusConflict:
		return &api.ConflictError{Resource: "request", Message: e.Message}
	}
	return nil
}

// UserMessage is the text to show a person: the server's explanation when
// present, otherwise a generic message.
func (e *StatusError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return "The operation could not be completed"
}

// MalformedResponseError reports a response body that does not satisfy the
// resource contract.
type MalformedResponseError struct {
	URL string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.URL, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
