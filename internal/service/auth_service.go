package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"logineko/internal/apiclient"
	"logineko/internal/session"
	"logineko/internal/validation"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrBackendUnavailable = errors.New("authentication service unavailable")
)

// AuthService signs operators in and out.
type AuthService struct {
	api   *apiclient.Client
	store *session.Store
}

// NewAuthService creates a new auth service
func NewAuthService(api *apiclient.Client, store *session.Store) *AuthService {
	return &AuthService{api: api, store: store}
}

// Login validates the form, exchanges the credentials for tokens and binds
// them to the browser session sid. A validation.Errors result means no
// request was sent.
func (s *AuthService) Login(ctx context.Context, sid string, form validation.LoginForm) error {
	if errs := validation.Validate(form); errs != nil {
		return errs
	}

	tok, err := s.api.Login(ctx, form.Username, form.Password)
	if err != nil {
		var te *apiclient.TransportError
		var ee *apiclient.EnvelopeError
		switch {
		case errors.As(err, &te) && (te.StatusCode == http.StatusBadRequest || apiclient.IsUnauthorized(err)):
			return ErrInvalidCredentials
		case errors.As(err, &ee):
			return ErrInvalidCredentials
		default:
			return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
	}

	if err := s.store.Login(ctx, sid, tok.AccessToken, tok.RefreshToken); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Logout forgets the tokens of sid.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.store.Logout(ctx, sid)
}

// IsAuthenticated reports whether sid holds an access token.
func (s *AuthService) IsAuthenticated(sid string) bool {
	return s.store.IsAuthenticated(sid)
}

// Identity returns who is signed in on sid, read from the access token.
func (s *AuthService) Identity(sid string) AdminIdentity {
	t, ok := s.store.Tokens(sid)
	if !ok {
		return AdminIdentity{}
	}
	return IdentityFromToken(t.AccessToken)
}

// AdminIdentity is shown in the page header.
type AdminIdentity struct {
	Username string
	Name     string
	Email    string
}

// DisplayName prefers the full name, then the username.
func (a AdminIdentity) DisplayName() string {
	switch {
	case a.Name != "":
		return a.Name
	case a.Username != "":
		return a.Username
	default:
		return "Admin"
	}
}

// IdentityFromToken reads the profile claims of an access token without
// verifying its signature; the backend verifies it on every call. Tokens
// that are not JWTs yield an empty identity.
func IdentityFromToken(token string) AdminIdentity {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return AdminIdentity{}
	}
	str := func(key string) string {
		v, _ := claims[key].(string)
		return v
	}
	username := str("preferred_username")
	if username == "" {
		username, _ = claims.GetSubject()
	}
	return AdminIdentity{
		Username: username,
		Name:     str("name"),
		Email:    str("email"),
	}
}
