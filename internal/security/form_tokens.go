package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"time"
)

// DefaultFormTokenMaxAge is how long a rendered form stays submittable.
const DefaultFormTokenMaxAge = 12 * time.Hour

// formTokenSkew tolerates clocks that disagree across restarts.
const formTokenSkew = time.Minute

const formTokenLen = 8 + sha256.Size

// ErrNoSession is returned when a form token is requested without a session.
var ErrNoSession = errors.New("form token needs a session id")

// FormTokens issues anti-forgery tokens for HTML forms. A token is the issue
// time followed by a MAC over the session id and that time, keyed by a key
// derived only for this purpose. Nothing is stored server-side.
type FormTokens struct {
	key    []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewFormTokens derives the token key from the application secret.
// A non-positive maxAge means DefaultFormTokenMaxAge.
func NewFormTokens(secret string, maxAge time.Duration) *FormTokens {
	if maxAge <= 0 {
		maxAge = DefaultFormTokenMaxAge
	}
	return &FormTokens{
		key:    DeriveKey(secret, "form-token", sha256.Size),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Issue returns a fresh token for sessionID.
func (f *FormTokens) Issue(sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrNoSession
	}
	raw := make([]byte, 8, formTokenLen)
	binary.BigEndian.PutUint64(raw, uint64(f.now().Unix()))
	raw = append(raw, f.sign(sessionID, raw[:8])...)
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Verify reports whether token was issued for sessionID and has not expired.
func (f *FormTokens) Verify(sessionID, token string) bool {
	if sessionID == "" || token == "" {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) != formTokenLen {
		return false
	}
	if !hmac.Equal(raw[8:], f.sign(sessionID, raw[:8])) {
		return false
	}

	issued := time.Unix(int64(binary.BigEndian.Uint64(raw[:8])), 0)
	age := f.now().Sub(issued)
	return age <= f.maxAge && age >= -formTokenSkew
}

func (f *FormTokens) sign(sessionID string, issued []byte) []byte {
	mac := hmac.New(sha256.New, f.key)
	mac.Write(issued)
	mac.Write([]byte(sessionID))
	return mac.Sum(nil)
}
