package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/music-catalog/internal/domain"
)

// TokenType tags a claim set as access or refresh. The tag is checked on
// verification even though the two kinds are signed with different secrets,
// so a token presented at the wrong gate fails for two independent reasons.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	// ErrTokenInvalid covers bad signatures and unparseable tokens.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned when the expiry claim has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenType is returned when a valid token carries the wrong kind tag.
	ErrTokenType = errors.New("invalid token type")
)

// Claims describes the JWT payload for both token kinds. The principal
// identifier rides in the registered "sub" claim; everything else is custom.
type Claims struct {
	Email       string             `json:"email"`
	SubjectType domain.SubjectType `json:"type"`
	Roles       []string           `json:"roles"`
	TokenType   TokenType          `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies the two token kinds, each under its own
// secret and TTL. Both secrets are injected at construction; there is no
// ambient secret state.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenCodec builds a codec from the two secrets and their lifetimes.
func NewTokenCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenCodec {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenCodec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RefreshTTL exposes the refresh token lifetime for store bookkeeping.
func (tc *TokenCodec) RefreshTTL() time.Duration {
	return tc.refreshTTL
}

// SignAccess issues a short-lived access token.
func (tc *TokenCodec) SignAccess(subjectID, email string, subject domain.SubjectType, roles []string) (string, time.Time, error) {
	return tc.sign(subjectID, email, subject, roles, TokenTypeAccess, tc.accessSecret, tc.accessTTL)
}

// SignRefresh issues a long-lived refresh token.
func (tc *TokenCodec) SignRefresh(subjectID, email string, subject domain.SubjectType, roles []string) (string, time.Time, error) {
	return tc.sign(subjectID, email, subject, roles, TokenTypeRefresh, tc.refreshSecret, tc.refreshTTL)
}

// VerifyAccess validates a token under the access secret and requires the
// access kind tag.
func (tc *TokenCodec) VerifyAccess(tokenStr string) (*Claims, error) {
	return tc.verify(tokenStr, tc.accessSecret, TokenTypeAccess)
}

// VerifyRefresh validates a token under the refresh secret and requires the
// refresh kind tag.
func (tc *TokenCodec) VerifyRefresh(tokenStr string) (*Claims, error) {
	return tc.verify(tokenStr, tc.refreshSecret, TokenTypeRefresh)
}

func (tc *TokenCodec) sign(subjectID, email string, subject domain.SubjectType, roles []string, kind TokenType, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Email:       email,
		SubjectType: subject,
		Roles:       roles,
		TokenType:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti keeps tokens issued for the same principal within the
			// same second distinct; iat/exp alone have one-second granularity.
			ID:        uuid.NewString(),
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func (tc *TokenCodec) verify(tokenStr string, secret []byte, want TokenType) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.TokenType != want {
		return nil, ErrTokenType
	}
	return claims, nil
}
