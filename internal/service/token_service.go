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
	"github.com/spec-kit/music-catalog/internal/repository"
)

// Refresh-flow error kinds. Callers outside this package collapse them into a
// single generic unauthorized response so a client cannot distinguish a
// revoked token from an expired or foreign one.
var (
	ErrRefreshInvalid     = errors.New("refresh token invalid")
	ErrRefreshInvalidType = errors.New("refresh token has wrong type")
	ErrRefreshNotFound    = errors.New("refresh token not found")
	ErrRefreshExpired     = errors.New("refresh token expired")
)

// TokenService owns the refresh-token lifecycle: issuance, rotation on use,
// revocation and retention sweeps. It is the only writer of the token store.
type TokenService struct {
	codec      *auth.TokenCodec
	tokens     repository.RefreshTokenRepository
	dispatcher events.Dispatcher
	retention  time.Duration
}

// NewTokenService builds the lifecycle manager.
func NewTokenService(codec *auth.TokenCodec, tokens repository.RefreshTokenRepository, dispatcher events.Dispatcher, retention time.Duration) *TokenService {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &TokenService{
		codec:      codec,
		tokens:     tokens,
		dispatcher: dispatcher,
		retention:  retention,
	}
}

// IssuePair signs an access/refresh token pair for the principal and persists
// the refresh token record.
func (s *TokenService) IssuePair(ctx context.Context, subjectID, email string, subjectType domain.SubjectType, roles []string) (*domain.TokenPair, error) {
	accessToken, _, err := s.codec.SignAccess(subjectID, email, subjectType, roles)
	if err != nil {
		return nil, err
	}
	refreshToken, _, err := s.codec.SignRefresh(subjectID, email, subjectType, roles)
	if err != nil {
		return nil, err
	}

	record := domain.NewRefreshToken(refreshToken, subjectID, subjectType, int64(s.codec.RefreshTTL()/time.Second))
	if err := s.tokens.Create(ctx, record); err != nil {
		return nil, err
	}

	return &domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh rotates a refresh token: the presented token is verified, matched
// against its stored record, aged, and atomically replaced by a fresh pair.
// The new refresh token is returned to the caller; the old one is gone from
// the store the moment this succeeds.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenType) {
			return nil, ErrRefreshInvalidType
		}
		return nil, ErrRefreshInvalid
	}

	record, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Already rotated, revoked, or never issued here.
			return nil, ErrRefreshNotFound
		}
		return nil, err
	}

	if record.ExpiredAt(time.Now()) {
		if delErr := s.tokens.DeleteByID(ctx, record.ID); delErr != nil && !errors.Is(delErr, pgx.ErrNoRows) {
			return nil, delErr
		}
		return nil, ErrRefreshExpired
	}

	newAccess, _, err := s.codec.SignAccess(claims.Subject, claims.Email, claims.SubjectType, claims.Roles)
	if err != nil {
		return nil, err
	}
	newRefresh, _, err := s.codec.SignRefresh(claims.Subject, claims.Email, claims.SubjectType, claims.Roles)
	if err != nil {
		return nil, err
	}

	next := domain.NewRefreshToken(newRefresh, claims.Subject, claims.SubjectType, int64(s.codec.RefreshTTL()/time.Second))
	if err := s.tokens.Replace(ctx, record.ID, next); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A concurrent refresh or revoke consumed the record between the
			// lookup and the conditional delete.
			return nil, ErrRefreshNotFound
		}
		return nil, err
	}

	s.publish(ctx, events.EventTokenRotated, claims.SubjectType, claims.Subject,
		events.TokenRotatedPayload{SubjectID: claims.Subject})

	return &domain.TokenPair{AccessToken: newAccess, RefreshToken: newRefresh}, nil
}

// Revoke deletes every stored record matching the token string. Absence is
// not an error, so revoking twice is harmless.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	deleted, err := s.tokens.DeleteByToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.publish(ctx, events.EventTokenRevoked, "", "", events.TokenRevokedPayload{})
	}
	return nil
}

// RevokeAll deletes every refresh token owned by the principal, logging the
// principal out of all devices.
func (s *TokenService) RevokeAll(ctx context.Context, subjectID string, subjectType domain.SubjectType) error {
	if _, err := s.tokens.DeleteBySubject(ctx, subjectID, subjectType); err != nil {
		return err
	}
	s.publish(ctx, events.EventTokenRevoked, subjectType, subjectID,
		events.TokenRevokedPayload{AllDevices: true})
	return nil
}

// SweepExpired deletes records past the retention horizon regardless of their
// own expires_in, and returns the number removed. Safe to run concurrently
// with rotations: swept records are strictly older than anything an in-flight
// rotation could still reference after its age check.
func (s *TokenService) SweepExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.retention)
	return s.tokens.DeleteCreatedBefore(ctx, cutoff)
}

func (s *TokenService) publish(ctx context.Context, eventType events.EventType, subjectType domain.SubjectType, subjectID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     events.Actor{Type: subjectType, ID: subjectID},
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
