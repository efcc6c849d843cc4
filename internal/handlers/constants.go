package handlers

const (
	// CookieSessionName is the gorilla session holding the browser id and flashes.
	CookieSessionName = "logineko_admin"
	sessionIDKey      = "sid"

	flashSuccess = "success"
	flashError   = "error"

	csrfFormField  = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"

	defaultLandingPage = "/dashboard"
	loginPath          = "/login"

	ErrInvalidFormData     = "Invalid form data"
	ErrInternalServerError = "Internal server error"
	ErrNotFound            = "Not found"
	ErrForbidden           = "Forbidden"
	ErrTooManyRequests     = "Too many login attempts. Please wait a minute and try again."
	ErrUploadTooLarge      = "Upload too large"
)
