package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/music-catalog/internal/domain"
	"github.com/spec-kit/music-catalog/internal/events"
	"github.com/spec-kit/music-catalog/internal/repository"
)

// AlbumPage is the paginated listing envelope.
type AlbumPage struct {
	Albums   []domain.Album
	Skip     int
	Take     int
	Total    int64
	Next     bool
	Previous bool
}

// AlbumCreateInput captures the fields an artist supplies for a new album.
type AlbumCreateInput struct {
	Title      string
	CoverURL   *string
	ReleasedAt *time.Time
}

// AlbumUpdateInput carries partial updates.
type AlbumUpdateInput struct {
	Title      *string
	CoverURL   *string
	ReleasedAt *time.Time
}

// AlbumService manages catalog albums.
type AlbumService struct {
	albums     repository.AlbumRepository
	cache      *CatalogCache
	dispatcher events.Dispatcher
}

// NewAlbumService builds the service.
func NewAlbumService(albums repository.AlbumRepository, cache *CatalogCache, dispatcher events.Dispatcher) *AlbumService {
	return &AlbumService{albums: albums, cache: cache, dispatcher: dispatcher}
}

// Create stores a new album owned by the acting artist.
func (s *AlbumService) Create(ctx context.Context, artistID string, input AlbumCreateInput) (*domain.Album, error) {
	album := &domain.Album{
		Title:      input.Title,
		ArtistID:   artistID,
		CoverURL:   input.CoverURL,
		ReleasedAt: input.ReleasedAt,
	}
	if err := s.albums.Create(ctx, album); err != nil {
		return nil, err
	}
	s.publishAlbum(ctx, events.EventAlbumCreated, album)
	return album, nil
}

// List returns a filtered page of albums, served from cache when possible.
func (s *AlbumService) List(ctx context.Context, filter repository.AlbumFilter) (*AlbumPage, error) {
	key := albumCacheKey(filter)
	var cached AlbumPage
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	albums, total, err := s.albums.List(ctx, filter)
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
	page := &AlbumPage{
		Albums:   albums,
		Skip:     skip,
		Take:     take,
		Total:    total,
		Next:     int64(skip+take) < total,
		Previous: skip > 0,
	}
	s.cache.Set(ctx, key, page)
	return page, nil
}

// Get fetches one album by id.
func (s *AlbumService) Get(ctx context.Context, id string) (*domain.Album, error) {
	return s.albums.GetByID(ctx, id)
}

// ListByArtist returns an artist's albums, newest first.
func (s *AlbumService) ListByArtist(ctx context.Context, artistID string) ([]domain.Album, error) {
	albums, _, err := s.albums.List(ctx, repository.AlbumFilter{
		ArtistID: &artistID,
		SortBy:   "created_at",
		SortDesc: true,
		Limit:    100,
	})
	return albums, err
}

// Update applies a partial update to an album.
func (s *AlbumService) Update(ctx context.Context, id string, input AlbumUpdateInput) (*domain.Album, error) {
	album, err := s.albums.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		album.Title = *input.Title
	}
	if input.CoverURL != nil {
		album.CoverURL = input.CoverURL
	}
	if input.ReleasedAt != nil {
		album.ReleasedAt = input.ReleasedAt
	}

	if err := s.albums.Update(ctx, album); err != nil {
		return nil, err
	}
	s.publishAlbum(ctx, events.EventAlbumUpdated, album)
	return album, nil
}

// Delete removes an album.
func (s *AlbumService) Delete(ctx context.Context, id string) error {
	album, err := s.albums.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.albums.Delete(ctx, id); err != nil {
		return err
	}
	s.publishAlbum(ctx, events.EventAlbumDeleted, album)
	return nil
}

func (s *AlbumService) publishAlbum(ctx context.Context, eventType events.EventType, album *domain.Album) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     events.Actor{Type: domain.SubjectTypeArtist, ID: album.ArtistID},
		Timestamp: time.Now(),
		Payload: events.AlbumPayload{
			AlbumID:  album.ID,
			Title:    album.Title,
			ArtistID: album.ArtistID,
		},
	})
}

func albumCacheKey(filter repository.AlbumFilter) string {
	search, artist := "", ""
	if filter.Search != nil {
		search = *filter.Search
	}
	if filter.ArtistID != nil {
		artist = *filter.ArtistID
	}
	return fmt.Sprintf("%s%s|%s|%s|%t|%d|%d",
		cachePrefixAlbums, search, artist,
		filter.SortBy, filter.SortDesc, filter.Limit, filter.Offset)
}
