package handlers

import (
	"log"
	"net/http"

	"logineko/internal/security"
	"logineko/internal/session"

	"github.com/gorilla/sessions"
)

// NewCookieStore returns the signed and encrypted cookie store for browser
// sessions. Both keys are derived from secret.
func NewCookieStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore(
		security.DeriveKey(secret, "cookie-hash", 32),
		security.DeriveKey(secret, "cookie-block", 32),
	)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// cookieSession returns the browser's gorilla session. A cookie that fails
// to decode (for example after the secret changed) yields a fresh session.
func cookieSession(store sessions.Store, r *http.Request) *sessions.Session {
	sess, err := store.Get(r, CookieSessionName)
	if err != nil {
		log.Printf("Discarding unreadable session cookie: %v", err)
	}
	if sess == nil {
		sess = sessions.NewSession(store, CookieSessionName)
	}
	if sess.Options != nil {
		opts := *sess.Options
		opts.Secure = security.IsSecureRequest(r)
		sess.Options = &opts
	}
	return sess
}

// rotateSessionID gives the browser a new id, used at sign-in so an id seen
// before authentication never carries a token.
func rotateSessionID(store sessions.Store, w http.ResponseWriter, r *http.Request) (string, *http.Request, error) {
	sess := cookieSession(store, r)
	sid := security.GenerateSessionID()
	sess.Values[sessionIDKey] = sid
	if err := sess.Save(r, w); err != nil {
		return "", r, err
	}
	return sid, r.WithContext(session.WithID(r.Context(), sid)), nil
}

// addFlash queues a one-shot notification shown on the next rendered page.
// Messages are kept as []string per kind, a type gob encodes without
// registration.
func addFlash(store sessions.Store, w http.ResponseWriter, r *http.Request, kind, msg string) {
	sess := cookieSession(store, r)
	key := flashKey(kind)
	queued, _ := sess.Values[key].([]string)
	sess.Values[key] = append(queued, msg)
	if err := sess.Save(r, w); err != nil {
		log.Printf("Failed to save flash: %v", err)
	}
}

// popFlashes removes and returns queued notifications, errors first. It
// must run before anything is written to w.
func popFlashes(store sessions.Store, w http.ResponseWriter, r *http.Request) []Flash {
	sess := cookieSession(store, r)
	var out []Flash
	for _, kind := range []string{flashError, flashSuccess} {
		key := flashKey(kind)
		queued, ok := sess.Values[key].([]string)
		if !ok {
			continue
		}
		delete(sess.Values, key)
		for _, msg := range queued {
			out = append(out, Flash{Kind: kind, Message: msg})
		}
	}
	if len(out) > 0 {
		if err := sess.Save(r, w); err != nil {
			log.Printf("Failed to save session after reading flashes: %v", err)
		}
	}
	return out
}

func flashKey(kind string) string {
	return "flash_" + kind
}
