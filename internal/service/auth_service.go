package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/music-catalog/internal/auth"
	"github.com/spec-kit/music-catalog/internal/domain"
	"github.com/spec-kit/music-catalog/internal/events"
	apperrors "github.com/spec-kit/music-catalog/pkg/util/errorutil"
)

// invalidCredentials is the single message for every sign-in failure. A
// missing account, a missing hash and a wrong password are indistinguishable
// to the caller.
const invalidCredentials = "invalid email or password"

// AuthResult bundles the issued tokens with a sanitized account summary.
type AuthResult struct {
	domain.TokenPair
	Principal domain.PrincipalInfo
}

// AuthService coordinates credential verification and token issuance.
type AuthService struct {
	directory  *PrincipalDirectory
	tokens     *TokenService
	dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(directory *PrincipalDirectory, tokens *TokenService, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{directory: directory, tokens: tokens, dispatcher: dispatcher}
}

// SignIn authenticates a principal of either variant and issues a token pair.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	principal, err := s.directory.ResolveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized(invalidCredentials)
		}
		return nil, err
	}

	hash := principal.PasswordHash()
	if hash == "" || auth.ComparePassword(hash, password) != nil {
		return nil, apperrors.NewUnauthorized(invalidCredentials)
	}

	pair, err := s.tokens.IssuePair(ctx, principal.ID(), principal.Email(), principal.Type, principal.Roles())
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPrincipalSignedIn,
			Actor:     events.Actor{Type: principal.Type, ID: principal.ID()},
			Timestamp: time.Now(),
			Payload:   events.SignedInPayload{Email: principal.Email()},
		})
	}

	return &AuthResult{TokenPair: *pair, Principal: principal.Info()}, nil
}

// Refresh exchanges a refresh token for a rotated pair. Every lifecycle
// failure kind collapses into one generic unauthorized error here; the client
// learns nothing about why the token was rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	pair, err := s.tokens.Refresh(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrRefreshInvalid),
			errors.Is(err, ErrRefreshInvalidType),
			errors.Is(err, ErrRefreshNotFound),
			errors.Is(err, ErrRefreshExpired):
			return nil, apperrors.NewUnauthorized("invalid refresh token")
		}
		return nil, err
	}
	return pair, nil
}

// Logout revokes a single device's refresh token. Idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

// LogoutAllDevices revokes every refresh token held by the principal.
func (s *AuthService) LogoutAllDevices(ctx context.Context, subjectID string, subjectType domain.SubjectType) error {
	return s.tokens.RevokeAll(ctx, subjectID, subjectType)
}
