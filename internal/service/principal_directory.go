package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/music-catalog/internal/domain"
	"github.com/spec-kit/music-catalog/internal/repository"
)

// PrincipalDirectory resolves an email to at most one principal across the
// two disjoint account stores. Emails are unique per store, not globally; the
// user store is consulted first, so a user always wins an email collision
// with an artist.
type PrincipalDirectory struct {
	users   repository.UserRepository
	artists repository.ArtistRepository
}

// NewPrincipalDirectory builds the directory.
func NewPrincipalDirectory(users repository.UserRepository, artists repository.ArtistRepository) *PrincipalDirectory {
	return &PrincipalDirectory{users: users, artists: artists}
}

// ResolveByEmail returns the tagged principal for the email, or pgx.ErrNoRows
// when neither store holds it.
func (d *PrincipalDirectory) ResolveByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	user, err := d.users.GetByEmail(ctx, email)
	if err == nil {
		return domain.UserPrincipal(user), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	artist, err := d.artists.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return domain.ArtistPrincipal(artist), nil
}
