package handlers

import (
	"context"
	"errors"
	"log"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"logineko/internal/metrics"
	"logineko/internal/security"
	"logineko/internal/service"
	"logineko/internal/session"

	"github.com/gorilla/sessions"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const AdminContextKey ContextKey = "admin"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService   *service.AuthService
	cookies       sessions.Store
	csrf          *security.FormTokens
	limiter       *security.RateLimiter
	metrics       *metrics.Metrics
	maxUploadSize int64
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, cookies sessions.Store, csrf *security.FormTokens, limiter *security.RateLimiter, m *metrics.Metrics, maxUploadSize int64) *Middleware {
	return &Middleware{
		authService:   authService,
		cookies:       cookies,
		csrf:          csrf,
		limiter:       limiter,
		metrics:       m,
		maxUploadSize: maxUploadSize,
	}
}

// Session makes sure the browser has a session id and puts it in the
// request context, issuing a new cookie when needed.
func (m *Middleware) Session(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := cookieSession(m.cookies, r)
		sid, _ := sess.Values[sessionIDKey].(string)
		if !security.IsValidSessionID(sid) {
			sid = security.GenerateSessionID()
			sess.Values[sessionIDKey] = sid
			if err := sess.Save(r, w); err != nil {
				respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to save session cookie", err)
				return
			}
		}
		next(w, r.WithContext(session.WithID(r.Context(), sid)))
	}
}

// RequireAuth re-reads the session store on every request. Browsers without
// an access token are sent to the login page with the original location
// preserved in the next parameter.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, _ := session.IDFromContext(r.Context())
		if sid == "" || !m.authService.IsAuthenticated(sid) {
			http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), AdminContextKey, m.authService.Identity(sid))
		next(w, r.WithContext(ctx))
	}
}

// CSRFProtect parses the form (bounded by the upload limit) and rejects
// unsafe requests whose token does not match the browser session.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next(w, r)
			return
		}

		if err := m.parseForm(w, r); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondWithError(w, http.StatusRequestEntityTooLarge, ErrUploadTooLarge, "Rejected oversized upload", err)
				return
			}
			respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "Failed to parse form", err)
			return
		}

		sid, _ := session.IDFromContext(r.Context())
		token := r.FormValue(csrfFormField)
		if token == "" {
			token = r.Header.Get(csrfHeaderName)
		}
		if !m.csrf.Verify(sid, token) {
			log.Printf("CSRF validation failed for %s %s", r.Method, r.URL.Path)
			http.Error(w, ErrForbidden, http.StatusForbidden)
			return
		}

		next(w, r)
	}
}

func (m *Middleware) parseForm(w http.ResponseWriter, r *http.Request) error {
	if m.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, m.maxUploadSize)
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(32 << 20)
	}
	return r.ParseForm()
}

// RateLimit throttles login attempts per client IP.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && !m.limiter.Allow(security.GetClientIP(r)) {
			if m.metrics != nil {
				m.metrics.ObserveLogin("limited")
			}
			w.Header().Set("Retry-After", "60")
			http.Error(w, ErrTooManyRequests, http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Logging middleware logs HTTP requests and records request metrics.
func Logging(m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, status, elapsed)

		if m != nil {
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.ObserveHTTP(r.Method, route, status, elapsed)
		}
	})
}

// LoginURL is the login page that returns to target afterwards.
func LoginURL(target string) string {
	if target == "" || target == "/" {
		return loginPath
	}
	return loginPath + "?next=" + url.QueryEscape(target)
}

// SafeRedirectTarget returns next when it is a local absolute path and the
// dashboard otherwise, so the login form cannot be used as an open redirect.
func SafeRedirectTarget(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return defaultLandingPage
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return defaultLandingPage
	}
	if u.Path == loginPath || u.Path == "/logout" {
		return defaultLandingPage
	}
	return next
}

// GetAdminFromContext retrieves the signed-in operator from the request context
func GetAdminFromContext(ctx context.Context) service.AdminIdentity {
	admin, _ := ctx.Value(AdminContextKey).(service.AdminIdentity)
	return admin
}
