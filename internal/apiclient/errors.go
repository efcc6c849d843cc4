package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError covers both a failed round trip (StatusCode == 0, Err set)
// and a non-2xx HTTP response.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("api: %s %s failed: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("api: %s %s returned HTTP %d", e.Method, e.Path, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is a 401 or 403 from the backend.
func IsUnauthorized(err error) bool {
	var te *TransportError
	if !errors.As(err, &te) {
		return false
	}
	return te.StatusCode == http.StatusUnauthorized || te.StatusCode == http.StatusForbidden
}

// UserMessage turns any client error into the short text shown to operators.
func UserMessage(err error) string {
	var te *TransportError
	var ee *EnvelopeError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &te) && te.StatusCode == 0:
		return "Could not reach the server. Please try again."
	case IsUnauthorized(err):
		return "You are not allowed to perform this action. Please sign in again."
	case errors.As(err, &te):
		return fmt.Sprintf("The server returned an error (HTTP %d).", te.StatusCode)
	case errors.As(err, &ee) && ee.Message != "":
		return ee.Message
	default:
		return "Operation failed."
	}
}
