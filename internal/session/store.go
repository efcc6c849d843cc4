// Package session holds the authentication state of every browser that has
// signed in to the admin console.
//
// A browser is identified by an opaque session id kept in its cookie. For
// each id the store keeps the access/refresh token pair returned by the
// backend's token exchange, mirroring what a single-page app would keep in
// localStorage. The pair is persisted so that a restart does not sign every
// operator out. No expiry is tracked here: an expired access token is only
// discovered when the backend rejects a request made with it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// Storage keys, matching the names the web client used in localStorage.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// ErrEmptyToken is returned by Login when no access token is supplied.
var ErrEmptyToken = errors.New("access token must not be empty")

// Tokens is the credential pair for one browser session.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// Persistence is where token pairs survive process restarts.
type Persistence interface {
	SetItems(ctx context.Context, sessionID string, items map[string]string) error
	RemoveItems(ctx context.Context, sessionID string, keys ...string) error
	LoadAll(ctx context.Context) (map[string]map[string]string, error)
}

// Sealer encrypts values before they reach Persistence.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// Store is the process-wide session store. Create it once with Init and
// pass it to whoever needs it.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]Tokens
	persist  Persistence
	sealer   Sealer
}

// Init builds the store and loads every previously persisted token pair.
// Rows that cannot be unsealed (for example after SESSION_SECRET changed)
// are skipped, which signs those browsers out.
func Init(ctx context.Context, persist Persistence, sealer Sealer) (*Store, error) {
	s := &Store{
		sessions: make(map[string]Tokens),
		persist:  persist,
		sealer:   sealer,
	}

	all, err := persist.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	for sid, items := range all {
		access, err := s.open(items[AccessTokenKey])
		if err != nil || access == "" {
			log.Printf("Discarding unreadable session %s: %v", shortID(sid), err)
			continue
		}
		refresh, err := s.open(items[RefreshTokenKey])
		if err != nil {
			refresh = ""
		}
		s.sessions[sid] = Tokens{AccessToken: access, RefreshToken: refresh}
	}

	return s, nil
}

// Login stores both tokens for the browser session and marks it authenticated.
func (s *Store) Login(ctx context.Context, sid, accessToken, refreshToken string) error {
	if accessToken == "" {
		return ErrEmptyToken
	}
	if sid == "" {
		return errors.New("session id must not be empty")
	}

	sealedAccess, err := s.seal(accessToken)
	if err != nil {
		return err
	}
	sealedRefresh, err := s.seal(refreshToken)
	if err != nil {
		return err
	}

	// Persist before publishing so a failed write never leaves a session
	// that would vanish on restart.
	err = s.persist.SetItems(ctx, sid, map[string]string{
		AccessTokenKey:  sealedAccess,
		RefreshTokenKey: sealedRefresh,
	})
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	s.sessions[sid] = Tokens{AccessToken: accessToken, RefreshToken: refreshToken}
	s.mu.Unlock()
	return nil
}

// Logout clears both tokens. Requests already sent with the old token are
// not affected.
func (s *Store) Logout(ctx context.Context, sid string) error {
	s.mu.Lock()
	delete(s.sessions, sid)
	s.mu.Unlock()

	if err := s.persist.RemoveItems(ctx, sid, AccessTokenKey, RefreshTokenKey); err != nil {
		return fmt.Errorf("failed to clear persisted session: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether an access token is currently stored for sid.
func (s *Store) IsAuthenticated(sid string) bool {
	_, ok := s.Tokens(sid)
	return ok
}

// Tokens returns a consistent snapshot of the pair stored for sid.
func (s *Store) Tokens(sid string) (Tokens, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.sessions[sid]
	if !ok || t.AccessToken == "" {
		return Tokens{}, false
	}
	return t, true
}

// Token returns the access token of the session carried by ctx, or "".
// It lets the store act as the API client's token source.
func (s *Store) Token(ctx context.Context) string {
	sid, ok := IDFromContext(ctx)
	if !ok {
		return ""
	}
	t, _ := s.Tokens(sid)
	return t.AccessToken
}

// Count returns the number of authenticated sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) seal(v string) (string, error) {
	if s.sealer == nil || v == "" {
		return v, nil
	}
	sealed, err := s.sealer.Seal(v)
	if err != nil {
		return "", fmt.Errorf("failed to seal token: %w", err)
	}
	return sealed, nil
}

func (s *Store) open(v string) (string, error) {
	if s.sealer == nil || v == "" {
		return v, nil
	}
	return s.sealer.Open(v)
}

func shortID(sid string) string {
	if len(sid) > 8 {
		return sid[:8]
	}
	return sid
}
