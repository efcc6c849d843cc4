package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Envelope is the uniform wrapper around every backend response body.
type Envelope struct {
	Status   int               `json:"status"`
	Code     any               `json:"code"` // numeric or symbolic depending on the endpoint
	Message  string            `json:"message"`
	Data     json.RawMessage   `json:"data"`
	Path     string            `json:"path"`
	Errors   []json.RawMessage `json:"errors"`
	Metadata json.RawMessage   `json:"metadata"`
}

// OK reports whether the envelope carries a usable payload.
func (e *Envelope) OK() bool {
	return e != nil && e.Status == http.StatusOK && hasData(e.Data)
}

// EnvelopeError is returned when a 2xx response carries an envelope whose
// status is not 200 or whose data is missing.
type EnvelopeError struct {
	Status  int
	Message string
	Path    string
}

func (e *EnvelopeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: unexpected envelope (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: unexpected envelope (status %d)", e.Status)
}

// Unwrap decodes the envelope's data into T. It fails with *EnvelopeError
// unless status is 200 and data is present.
func Unwrap[T any](env *Envelope) (T, error) {
	var out T
	if env == nil {
		return out, &EnvelopeError{Message: "empty response"}
	}
	if !env.OK() {
		return out, &EnvelopeError{Status: env.Status, Message: env.Message, Path: env.Path}
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("api: failed to decode %s data: %w", env.Path, err)
	}
	return out, nil
}

func hasData(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
