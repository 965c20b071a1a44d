package token

import (
	"strings"
	"testing"
	"time"

	"github.com/and161185/authkit/internal/errs"
	"github.com/stretchr/testify/require"
)

func newTestCodec() *Codec { return NewCodec([]byte("test-signing-key")) }

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	for _, typ := range []Type{TypeAccess, TypeRefresh} {
		tok, err := c.Issue(42, typ, time.Minute, nil)
		require.NoError(t, err)

		claims, err := c.DecodeAndValidate(tok, typ)
		require.NoError(t, err)
		require.Equal(t, int64(42), claims.UserID)
		require.Equal(t, typ, claims.Type)
		require.True(t, claims.ExpiresAt.After(time.Now()))
	}
}

func TestCodec_ExtraClaims(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	tok, err := c.Issue(7, TypeAccess, time.Minute, map[string]any{"scope": "email"})
	require.NoError(t, err)

	claims, err := c.DecodeAndValidate(tok, TypeAccess)
	require.NoError(t, err)
	require.Equal(t, "email", claims.Extra["scope"])
}

func TestCodec_ReservedClaimsCannotBeShadowed(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	// Caller tries to forge the subject, type, and expiry via extras.
	tok, err := c.Issue(7, TypeAccess, time.Minute, map[string]any{
		"user_id": 999,
		"type":    "refresh",
		"exp":     time.Now().Add(240 * time.Hour).Unix(),
	})
	require.NoError(t, err)

	claims, err := c.DecodeAndValidate(tok, TypeAccess)
	require.NoError(t, err)
	require.Equal(t, int64(7), claims.UserID)
	require.Equal(t, TypeAccess, claims.Type)
	require.True(t, claims.ExpiresAt.Before(time.Now().Add(2*time.Minute)))
	require.NotContains(t, claims.Extra, "user_id")
}

// flip replaces the character at position i with a value that is guaranteed
// to change the decoded bits even in the partially-used final base64 symbol.
func flip(s string, i int) string {
	b := []byte(s)
	if b[i] == 'Q' {
		b[i] = 'A'
	} else {
		b[i] = 'Q'
	}
	return string(b)
}

func TestCodec_TamperedTokenFailsWithBadSignature(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	tok, err := c.Issue(42, TypeAccess, time.Minute, nil)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	// Flip every character of the payload and signature segments.
	start := len(parts[0]) + 1
	for i := start; i < len(tok); i++ {
		if tok[i] == '.' {
			continue
		}
		_, err := c.DecodeAndValidate(flip(tok, i), TypeAccess)
		require.ErrorIs(t, err, errs.ErrBadSignature, "position %d", i)
	}
}

func TestCodec_WrongSecretFailsWithBadSignature(t *testing.T) {
	t.Parallel()

	tok, err := NewCodec([]byte("key-one")).Issue(1, TypeAccess, time.Minute, nil)
	require.NoError(t, err)

	_, err = NewCodec([]byte("key-two")).DecodeAndValidate(tok, TypeAccess)
	require.ErrorIs(t, err, errs.ErrBadSignature)
}

func TestCodec_Expired(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	tok, err := c.Issue(42, TypeAccess, -time.Second, nil)
	require.NoError(t, err)

	_, err = c.DecodeAndValidate(tok, TypeAccess)
	require.ErrorIs(t, err, errs.ErrExpired)
}

func TestCodec_ExpiresWithClock(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	tok, err := c.Issue(42, TypeAccess, 30*time.Minute, nil)
	require.NoError(t, err)

	// valid now
	_, err = c.DecodeAndValidate(tok, TypeAccess)
	require.NoError(t, err)

	// simulate the clock moving past expiry
	c.now = func() time.Time { return time.Now().Add(31 * time.Minute) }
	_, err = c.DecodeAndValidate(tok, TypeAccess)
	require.ErrorIs(t, err, errs.ErrExpired)
}

func TestCodec_TypeConfusion(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	refresh, err := c.Issue(42, TypeRefresh, time.Minute, nil)
	require.NoError(t, err)
	_, err = c.DecodeAndValidate(refresh, TypeAccess)
	require.ErrorIs(t, err, errs.ErrWrongType)

	access, err := c.Issue(42, TypeAccess, time.Minute, nil)
	require.NoError(t, err)
	_, err = c.DecodeAndValidate(access, TypeRefresh)
	require.ErrorIs(t, err, errs.ErrWrongType)
}

func TestCodec_ExpiryCheckedBeforeType(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	// expired AND wrong type: expiry wins
	tok, err := c.Issue(42, TypeRefresh, -time.Second, nil)
	require.NoError(t, err)
	_, err = c.DecodeAndValidate(tok, TypeAccess)
	require.ErrorIs(t, err, errs.ErrExpired)
}

func TestCodec_Malformed(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	for _, tok := range []string{"", "abc", "a.b", "a.b.c.d"} {
		_, err := c.DecodeAndValidate(tok, TypeAccess)
		require.ErrorIs(t, err, errs.ErrMalformed, "token %q", tok)
	}
}

func TestCodec_JTIUniquePerIssue(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	t1, err := c.Issue(42, TypeAccess, time.Minute, nil)
	require.NoError(t, err)
	t2, err := c.Issue(42, TypeAccess, time.Minute, nil)
	require.NoError(t, err)
	require.NotEqual(t, t1, t2)
}
