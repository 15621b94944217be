package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/music-catalog/internal/auth"
	"github.com/spec-kit/music-catalog/internal/domain"
	"github.com/spec-kit/music-catalog/internal/repository"
	apperrors "github.com/spec-kit/music-catalog/pkg/util/errorutil"
)

// ArtistPage is the paginated listing envelope.
type ArtistPage struct {
	Artists  []domain.Artist
	Skip     int
	Take     int
	Total    int64
	Next     bool
	Previous bool
}

// ArtistUpdateInput carries partial updates.
type ArtistUpdateInput struct {
	Name *string
	Bio  *string
}

// ArtistService manages artist accounts.
type ArtistService struct {
	artists    repository.ArtistRepository
	bcryptCost int
}

// NewArtistService builds the service.
func NewArtistService(artists repository.ArtistRepository, bcryptCost int) *ArtistService {
	return &ArtistService{artists: artists, bcryptCost: bcryptCost}
}

// Register creates a new artist account. Email uniqueness is per the artists
// table only; a user may already hold the same address.
func (s *ArtistService) Register(ctx context.Context, name, email, password string, bio *string) (*domain.Artist, error) {
	if _, err := s.artists.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	artist := &domain.Artist{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         string(domain.SubjectTypeArtist),
		Bio:          bio,
	}
	if err := s.artists.Create(ctx, artist); err != nil {
		return nil, err
	}
	return artist, nil
}

// Get fetches one artist by id.
func (s *ArtistService) Get(ctx context.Context, id string) (*domain.Artist, error) {
	return s.artists.GetByID(ctx, id)
}

// GetByName fetches one artist by display name.
func (s *ArtistService) GetByName(ctx context.Context, name string) (*domain.Artist, error) {
	return s.artists.GetByName(ctx, name)
}

// List returns a filtered page of artists.
func (s *ArtistService) List(ctx context.Context, filter repository.AccountFilter) (*ArtistPage, error) {
	artists, total, err := s.artists.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	skip := filter.Offset
	if skip < 0 {
		skip = 0
	}
	take := filter.Limit
	if take <= 0 {
		take = 10
	}
	return &ArtistPage{
		Artists:  artists,
		Skip:     skip,
		Take:     take,
		Total:    total,
		Next:     int64(skip+take) < total,
		Previous: skip > 0,
	}, nil
}

// Update applies a partial update to an artist profile.
func (s *ArtistService) Update(ctx context.Context, id string, input ArtistUpdateInput) (*domain.Artist, error) {
	artist, err := s.artists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		artist.Name = *input.Name
	}
	if input.Bio != nil {
		artist.Bio = input.Bio
	}
	if err := s.artists.Update(ctx, artist); err != nil {
		return nil, err
	}
	return artist, nil
}

// Delete removes the artist account.
func (s *ArtistService) Delete(ctx context.Context, id string) error {
	return s.artists.Delete(ctx, id)
}
