package handlers

import (
	"errors"
	"html/template"
	"net/http"

	"logineko/internal/metrics"
	"logineko/internal/security"
	"logineko/internal/service"
	"logineko/internal/session"
	"logineko/internal/validation"

	"github.com/gorilla/sessions"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	pages
	authService *service.AuthService
	metrics     *metrics.Metrics
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, templates *template.Template, cookies sessions.Store, csrf *security.FormTokens, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		pages:       newPages(templates, cookies, csrf),
		authService: authService,
		metrics:     m,
	}
}

// ShowLogin renders the login page
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")

	// Already signed in
	if sid, ok := session.IDFromContext(r.Context()); ok && h.authService.IsAuthenticated(sid) {
		http.Redirect(w, r, SafeRedirectTarget(next), http.StatusSeeOther)
		return
	}

	data := LoginViewData{
		Layout: h.layout(w, r, "Sign in", "login"),
		Next:   next,
	}
	h.render(w, http.StatusOK, "login.tmpl", data)
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form := validation.LoginForm{
		Username: formString(r, "username"),
		Password: r.FormValue("password"),
	}
	next := r.FormValue("next")

	// A browser that is already signed in gives up its old session first.
	if old, ok := session.IDFromContext(r.Context()); ok && h.authService.IsAuthenticated(old) {
		if err := h.authService.Logout(r.Context(), old); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to end previous session", err)
			return
		}
	}

	// New id at sign-in; the old one may have been seen by someone else.
	sid, r, err := rotateSessionID(h.cookies, w, r)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to rotate session", err)
		return
	}

	err = h.authService.Login(r.Context(), sid, form)
	if err == nil {
		h.observe("success")
		h.flash(w, r, flashSuccess, "Signed in successfully.")
		http.Redirect(w, r, SafeRedirectTarget(next), http.StatusSeeOther)
		return
	}

	data := LoginViewData{
		Form: validation.LoginForm{Username: form.Username},
		Next: next,
	}
	status := http.StatusBadGateway

	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		h.observe("invalid")
		data.Errors = verrs
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidCredentials):
		h.observe("failed")
		data.Error = "Invalid username or password."
		status = http.StatusUnauthorized
	default:
		h.observe("failed")
		data.Error = "Sign-in is unavailable right now. Please try again."
	}

	data.Layout = h.layout(w, r, "Sign in", "login")
	h.render(w, status, "login.tmpl", data)
}

// Logout handles logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sid, ok := session.IDFromContext(r.Context()); ok {
		if err := h.authService.Logout(r.Context(), sid); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to log out", err)
			return
		}
	}
	h.flash(w, r, flashSuccess, "You have been signed out.")
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// Home sends the browser to the dashboard, via the login page if needed.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, defaultLandingPage, http.StatusSeeOther)
}

func (h *AuthHandler) observe(outcome string) {
	if h.metrics != nil {
		h.metrics.ObserveLogin(outcome)
	}
}
