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

// SongPage is the paginated listing envelope.
type SongPage struct {
	Songs    []domain.Song
	Skip     int
	Take     int
	Total    int64
	Next     bool
	Previous bool
}

// SongCreateInput captures the fields an artist supplies for a new song.
type SongCreateInput struct {
	Title      string
	AlbumID    *string
	Duration   int
	ReleasedAt *time.Time
}

// SongUpdateInput carries partial updates.
type SongUpdateInput struct {
	Title      *string
	AlbumID    *string
	ClearAlbum bool
	Duration   *int
	ReleasedAt *time.Time
}

// SongService manages catalog tracks.
type SongService struct {
	songs      repository.SongRepository
	cache      *CatalogCache
	dispatcher events.Dispatcher
}

// NewSongService builds the service.
func NewSongService(songs repository.SongRepository, cache *CatalogCache, dispatcher events.Dispatcher) *SongService {
	return &SongService{songs: songs, cache: cache, dispatcher: dispatcher}
}

// Create stores a new song owned by the acting artist.
func (s *SongService) Create(ctx context.Context, artistID string, input SongCreateInput) (*domain.Song, error) {
	song := &domain.Song{
		Title:      input.Title,
		ArtistID:   artistID,
		AlbumID:    input.AlbumID,
		Duration:   input.Duration,
		ReleasedAt: input.ReleasedAt,
	}
	if err := s.songs.Create(ctx, song); err != nil {
		return nil, err
	}
	s.publishSong(ctx, events.EventSongCreated, song)
	return song, nil
}

// List returns a filtered page of songs, served from cache when possible.
func (s *SongService) List(ctx context.Context, filter repository.SongFilter) (*SongPage, error) {
	key := songCacheKey(filter)
	var cached SongPage
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	songs, total, err := s.songs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := buildSongPage(songs, total, filter)
	s.cache.Set(ctx, key, page)
	return page, nil
}

// ListSingles returns songs that belong to no album.
func (s *SongService) ListSingles(ctx context.Context, filter repository.SongFilter) (*SongPage, error) {
	filter.SinglesOnly = true
	return s.List(ctx, filter)
}

// Get fetches one song by id.
func (s *SongService) Get(ctx context.Context, id string) (*domain.Song, error) {
	return s.songs.GetByID(ctx, id)
}

// GetByTitle fetches the first song matching the title, case-insensitively.
func (s *SongService) GetByTitle(ctx context.Context, title string) (*domain.Song, error) {
	return s.songs.GetByTitle(ctx, title)
}

// ListByArtist returns an artist's songs, newest first.
func (s *SongService) ListByArtist(ctx context.Context, artistID string) ([]domain.Song, error) {
	songs, _, err := s.songs.List(ctx, repository.SongFilter{
		ArtistID: &artistID,
		SortBy:   "created_at",
		SortDesc: true,
		Limit:    100,
	})
	return songs, err
}

// ListByAlbum returns an album's songs, newest first.
func (s *SongService) ListByAlbum(ctx context.Context, albumID string) ([]domain.Song, error) {
	songs, _, err := s.songs.List(ctx, repository.SongFilter{
		AlbumID:  &albumID,
		SortBy:   "created_at",
		SortDesc: true,
		Limit:    100,
	})
	return songs, err
}

// Update applies a partial update to a song.
func (s *SongService) Update(ctx context.Context, id string, input SongUpdateInput) (*domain.Song, error) {
	song, err := s.songs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		song.Title = *input.Title
	}
	if input.ClearAlbum {
		song.AlbumID = nil
	} else if input.AlbumID != nil {
		song.AlbumID = input.AlbumID
	}
	if input.Duration != nil {
		song.Duration = *input.Duration
	}
	if input.ReleasedAt != nil {
		song.ReleasedAt = input.ReleasedAt
	}

	if err := s.songs.Update(ctx, song); err != nil {
		return nil, err
	}
	s.publishSong(ctx, events.EventSongUpdated, song)
	return song, nil
}

// Delete removes a song from the catalog.
func (s *SongService) Delete(ctx context.Context, id string) error {
	song, err := s.songs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.songs.Delete(ctx, id); err != nil {
		return err
	}
	s.publishSong(ctx, events.EventSongDeleted, song)
	return nil
}

func (s *SongService) publishSong(ctx context.Context, eventType events.EventType, song *domain.Song) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     events.Actor{Type: domain.SubjectTypeArtist, ID: song.ArtistID},
		Timestamp: time.Now(),
		Payload: events.SongPayload{
			SongID:   song.ID,
			Title:    song.Title,
			ArtistID: song.ArtistID,
			AlbumID:  song.AlbumID,
		},
	})
}

func buildSongPage(songs []domain.Song, total int64, filter repository.SongFilter) *SongPage {
	skip := filter.Offset
	if skip < 0 {
		skip = 0
	}
	take := filter.Limit
	if take <= 0 {
		take = 10
	}
	return &SongPage{
		Songs:    songs,
		Skip:     skip,
		Take:     take,
		Total:    total,
		Next:     int64(skip+take) < total,
		Previous: skip > 0,
	}
}

func songCacheKey(filter repository.SongFilter) string {
	search, artist, album := "", "", ""
	if filter.Search != nil {
		search = *filter.Search
	}
	if filter.ArtistID != nil {
		artist = *filter.ArtistID
	}
	if filter.AlbumID != nil {
		album = *filter.AlbumID
	}
	return fmt.Sprintf("%s%s|%s|%s|%t|%s|%t|%d|%d",
		cachePrefixSongs, search, artist, album, filter.SinglesOnly,
		filter.SortBy, filter.SortDesc, filter.Limit, filter.Offset)
}
