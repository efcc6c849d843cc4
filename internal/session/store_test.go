package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logineko/internal/security"
)

func newStore(t *testing.T, p Persistence) *Store {
	t.Helper()
	s, err := Init(context.Background(), p, security.NewSealer("test-secret"))
	require.NoError(t, err)
	return s
}

func TestLoginThenIsAuthenticated(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, NewMemoryPersistence())

	assert.False(t, s.IsAuthenticated("sid-1"))

	require.NoError(t, s.Login(ctx, "sid-1", "access-abc", "refresh-xyz"))
	assert.True(t, s.IsAuthenticated("sid-1"))
	assert.False(t, s.IsAuthenticated("sid-2"), "sessions are isolated per browser")

	tokens, ok := s.Tokens("sid-1")
	require.True(t, ok)
	assert.Equal(t, Tokens{AccessToken: "access-abc", RefreshToken: "refresh-xyz"}, tokens)

	require.NoError(t, s.Logout(ctx, "sid-1"))
	assert.False(t, s.IsAuthenticated("sid-1"))
}

func TestLoginAcceptsAnyNonEmptyToken(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, NewMemoryPersistence())

	for _, tok := range []string{"x", "not a jwt at all", "eyJ.a.b"} {
		require.NoError(t, s.Login(ctx, "sid", tok, ""))
		assert.True(t, s.IsAuthenticated("sid"))
	}

	assert.ErrorIs(t, s.Login(ctx, "sid-empty", "", "refresh"), ErrEmptyToken)
	assert.False(t, s.IsAuthenticated("sid-empty"))
}

func TestInitRestoresPersistedSessionsSealed(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersistence()

	first := newStore(t, p)
	require.NoError(t, first.Login(ctx, "sid-1", "access-abc", "refresh-xyz"))

	raw, err := p.LoadAll(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "access-abc", raw["sid-1"][AccessTokenKey], "tokens are sealed at rest")

	restarted := newStore(t, p)
	tokens, ok := restarted.Tokens("sid-1")
	require.True(t, ok)
	assert.Equal(t, "access-abc", tokens.AccessToken)
	assert.Equal(t, "refresh-xyz", tokens.RefreshToken)
}

func TestInitDropsSessionsSealedUnderAnotherSecret(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersistence()
	require.NoError(t, newStore(t, p).Login(ctx, "sid-1", "access-abc", "r"))

	other, err := Init(ctx, p, security.NewSealer("rotated-secret"))
	require.NoError(t, err)
	assert.False(t, other.IsAuthenticated("sid-1"))
}

type failingPersistence struct{ *MemoryPersistence }

func (failingPersistence) SetItems(context.Context, string, map[string]string) error {
	return errors.New("disk full")
}

func TestLoginPersistFailureLeavesUnauthenticated(t *testing.T) {
	s := newStore(t, failingPersistence{NewMemoryPersistence()})
	err := s.Login(context.Background(), "sid-1", "access", "refresh")
	assert.Error(t, err)
	assert.False(t, s.IsAuthenticated("sid-1"))
}

func TestTokenReadsSessionFromContext(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, NewMemoryPersistence())
	require.NoError(t, s.Login(ctx, "sid-1", "access-abc", ""))

	assert.Equal(t, "", s.Token(ctx))
	assert.Equal(t, "access-abc", s.Token(WithID(ctx, "sid-1")))
	assert.Equal(t, "", s.Token(WithID(ctx, "sid-unknown")))
}

func TestConcurrentReadersSeeConsistentPairs(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, NewMemoryPersistence())
	require.NoError(t, s.Login(ctx, "sid", "a0", "r0"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if tok, ok := s.Tokens("sid"); ok {
					// Pairs are always written together.
					assert.Equal(t, "r"+tok.AccessToken[1:], tok.RefreshToken)
				}
			}
		}()
	}
	for j := 1; j < 50; j++ {
		v := string(rune('0' + j%10))
		require.NoError(t, s.Login(ctx, "sid", "a"+v, "r"+v))
	}
	wg.Wait()
}
