package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrUnsealFailed is returned when a sealed value was tampered with or was
// sealed under another secret.
var ErrUnsealFailed = errors.New("unable to unseal value")

// DeriveKey derives a purpose-bound key of size bytes from the application secret.
func DeriveKey(secret, purpose string, size int) []byte {
	key := make([]byte, size)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("logineko-admin/"+purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		// hkdf only fails past 255*HashLen bytes
		panic(fmt.Sprintf("hkdf: %v", err))
	}
	return key
}

// Sealer encrypts short strings (tokens) before they are written to disk.
type Sealer struct {
	key [32]byte
}

// NewSealer creates a sealer keyed from secret.
func NewSealer(secret string) *Sealer {
	s := &Sealer{}
	copy(s.key[:], DeriveKey(secret, "token-seal", 32))
	return s
}

// Seal encrypts and authenticates plaintext, returning URL-safe base64.
func (s *Sealer) Seal(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return base64.RawURLEncoding.EncodeToString(out), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrUnsealFailed
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrUnsealFailed
	}
	return string(plain), nil
}
