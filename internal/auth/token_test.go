package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/music-catalog/internal/domain"
)

func newTestCodec() *TokenCodec {
	return NewTokenCodec("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	codec := newTestCodec()

	token, expiresAt, err := codec.SignAccess("user-1", "jo@example.com", domain.SubjectTypeUser, []string{"USER"})
	require.NoError(t, err)
	require.True(t, expiresAt.After(time.Now()))

	claims, err := codec.VerifyAccess(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "jo@example.com", claims.Email)
	require.Equal(t, domain.SubjectTypeUser, claims.SubjectType)
	require.Equal(t, []string{"USER"}, claims.Roles)
	require.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	codec := newTestCodec()

	token, _, err := codec.SignRefresh("artist-1", "band@example.com", domain.SubjectTypeArtist, []string{"ARTIST"})
	require.NoError(t, err)

	claims, err := codec.VerifyRefresh(token)
	require.NoError(t, err)
	require.Equal(t, "artist-1", claims.Subject)
	require.Equal(t, domain.SubjectTypeArtist, claims.SubjectType)
	require.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestBackToBackTokensAreDistinct(t *testing.T) {
	codec := newTestCodec()

	// iat/exp have one-second granularity, so uniqueness rests on the jti.
	first, _, err := codec.SignRefresh("user-1", "jo@example.com", domain.SubjectTypeUser, []string{"USER"})
	require.NoError(t, err)
	second, _, err := codec.SignRefresh("user-1", "jo@example.com", domain.SubjectTypeUser, []string{"USER"})
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	firstClaims, err := codec.VerifyRefresh(first)
	require.NoError(t, err)
	secondClaims, err := codec.VerifyRefresh(second)
	require.NoError(t, err)
	require.NotEmpty(t, firstClaims.ID)
	require.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestTokensDoNotCrossVerify(t *testing.T) {
	codec := newTestCodec()

	access, _, err := codec.SignAccess("user-1", "jo@example.com", domain.SubjectTypeUser, nil)
	require.NoError(t, err)
	refresh, _, err := codec.SignRefresh("user-1", "jo@example.com", domain.SubjectTypeUser, nil)
	require.NoError(t, err)

	// Distinct secrets: the wrong gate sees a bad signature before any
	// kind-tag check.
	_, err = codec.VerifyRefresh(access)
	require.ErrorIs(t, err, ErrTokenInvalid)
	_, err = codec.VerifyAccess(refresh)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestKindTagRejectedUnderSharedSecret(t *testing.T) {
	// A misconfigured deployment with one shared secret still rejects a
	// refresh token at the access gate via the kind tag.
	codec := NewTokenCodec("shared", "shared", time.Minute, time.Hour)

	refresh, _, err := codec.SignRefresh("user-1", "jo@example.com", domain.SubjectTypeUser, nil)
	require.NoError(t, err)

	_, err = codec.VerifyAccess(refresh)
	require.ErrorIs(t, err, ErrTokenType)
}

func TestExpiredTokenRejected(t *testing.T) {
	codec := NewTokenCodec("access-secret", "refresh-secret", time.Millisecond, time.Millisecond)

	token, _, err := codec.SignAccess("user-1", "jo@example.com", domain.SubjectTypeUser, nil)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = codec.VerifyAccess(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestMalformedTokenRejected(t *testing.T) {
	codec := newTestCodec()

	_, err := codec.VerifyAccess("not-a-jwt")
	require.ErrorIs(t, err, ErrTokenInvalid)

	otherCodec := NewTokenCodec("different", "secrets", time.Minute, time.Hour)
	token, _, err := otherCodec.SignAccess("user-1", "jo@example.com", domain.SubjectTypeUser, nil)
	require.NoError(t, err)

	_, err = codec.VerifyAccess(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
