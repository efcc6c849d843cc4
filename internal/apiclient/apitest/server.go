// Package apitest provides a fake Logineko backend for tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Request is a recorded inbound request.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// Bearer returns the token of the Authorization header, or "".
func (r Request) Bearer() string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// Form parses a multipart body.
func (r Request) Form() (*multipart.Form, error) {
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return nil, fmt.Errorf("not a multipart body: %s", mediaType)
	}
	return multipart.NewReader(bytes.NewReader(r.Body), params["boundary"]).ReadForm(32 << 20)
}

// DecodePart decodes the JSON held in the named multipart file part.
func (r Request) DecodePart(name string, v any) error {
	form, err := r.Form()
	if err != nil {
		return err
	}
	files := form.File[name]
	if len(files) == 0 {
		return fmt.Errorf("no part named %q", name)
	}
	f, err := files[0].Open()
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v)
}

// DecodeJSON decodes a JSON request body.
func (r Request) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Server records every request and answers from registered handlers.
// Unregistered routes get 404.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	mux      *http.ServeMux
	requests []Request
}

// NewServer starts a fake backend that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	s := &Server{mux: http.NewServeMux()}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     body,
	})
	s.mu.Unlock()

	s.mux.ServeHTTP(w, r)
}

// Handle registers h for a ServeMux pattern such as "GET /courses/{id}".
func (s *Server) Handle(pattern string, h http.HandlerFunc) {
	s.mux.HandleFunc(pattern, h)
}

// Reply registers a handler that always answers with data in an envelope.
func (s *Server) Reply(pattern string, data any) {
	s.Handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		WriteData(w, r, data)
	})
}

// Fail registers a handler that always answers with the given HTTP status.
func (s *Server) Fail(pattern string, status int) {
	s.Handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(status), status)
	})
}

// Requests returns a copy of everything received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns the recorded requests matching method and path.
func (s *Server) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// WriteData answers with a successful envelope around data.
func WriteData(w http.ResponseWriter, r *http.Request, data any) {
	WriteEnvelope(w, map[string]any{
		"status":   http.StatusOK,
		"code":     "SUCCESS",
		"message":  "OK",
		"data":     data,
		"path":     r.URL.Path,
		"errors":   []any{},
		"metadata": nil,
	})
}

// WriteEnvelope answers 200 with an arbitrary envelope body.
func WriteEnvelope(w http.ResponseWriter, env map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(env)
}
