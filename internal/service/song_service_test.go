package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/music-catalog/internal/domain"
	"github.com/spec-kit/music-catalog/internal/events"
	"github.com/spec-kit/music-catalog/internal/repository"
)

type memorySongRepo struct {
	songs map[string]*domain.Song
	lists int
}

func newMemorySongRepo() *memorySongRepo {
	return &memorySongRepo{songs: map[string]*domain.Song{}}
}

func (r *memorySongRepo) Create(_ context.Context, song *domain.Song) error {
	song.ID = uuid.NewString()
	song.CreatedAt = time.Now()
	song.UpdatedAt = song.CreatedAt
	stored := *song
	r.songs[song.ID] = &stored
	return nil
}

func (r *memorySongRepo) Update(_ context.Context, song *domain.Song) error {
	if _, ok := r.songs[song.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *song
	r.songs[song.ID] = &stored
	return nil
}

func (r *memorySongRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.songs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.songs, id)
	return nil
}

func (r *memorySongRepo) GetByID(_ context.Context, id string) (*domain.Song, error) {
	song, ok := r.songs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *song
	return &found, nil
}

func (r *memorySongRepo) GetByTitle(_ context.Context, title string) (*domain.Song, error) {
	for _, song := range r.songs {
		if strings.EqualFold(song.Title, title) {
			found := *song
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memorySongRepo) List(_ context.Context, filter repository.SongFilter) ([]domain.Song, int64, error) {
	r.lists++
	out := make([]domain.Song, 0, len(r.songs))
	for _, song := range r.songs {
		if filter.SinglesOnly && song.AlbumID != nil {
			continue
		}
		if filter.ArtistID != nil && song.ArtistID != *filter.ArtistID {
			continue
		}
		if filter.AlbumID != nil && (song.AlbumID == nil || *song.AlbumID != *filter.AlbumID) {
			continue
		}
		out = append(out, *song)
	}
	return out, int64(len(out)), nil
}

func newSongFixture(t *testing.T) (*SongService, *memorySongRepo) {
	t.Helper()
	repo := newMemorySongRepo()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewCatalogCache(client, time.Minute, zap.NewNop())
	dispatcher := events.NewInMemoryDispatcher()
	cache.RegisterInvalidation(dispatcher)

	return NewSongService(repo, cache, dispatcher), repo
}

func TestSongCreateAndGet(t *testing.T) {
	svc, _ := newSongFixture(t)
	ctx := context.Background()

	song, err := svc.Create(ctx, "artist-1", SongCreateInput{Title: "Opening", Duration: 200})
	require.NoError(t, err)
	require.NotEmpty(t, song.ID)
	require.True(t, song.IsSingle())

	fetched, err := svc.Get(ctx, song.ID)
	require.NoError(t, err)
	require.Equal(t, "Opening", fetched.Title)
}

func TestSongListServedFromCacheUntilMutation(t *testing.T) {
	svc, repo := newSongFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "artist-1", SongCreateInput{Title: "Opening", Duration: 200})
	require.NoError(t, err)

	_, err = svc.List(ctx, repository.SongFilter{})
	require.NoError(t, err)
	first := repo.lists

	// Second identical listing is a cache hit, never touching the store.
	page, err := svc.List(ctx, repository.SongFilter{})
	require.NoError(t, err)
	require.Equal(t, first, repo.lists)
	require.Equal(t, int64(1), page.Total)

	// A mutation event clears the listing cache.
	_, err = svc.Create(ctx, "artist-1", SongCreateInput{Title: "Closing", Duration: 210})
	require.NoError(t, err)

	page, err = svc.List(ctx, repository.SongFilter{})
	require.NoError(t, err)
	require.Greater(t, repo.lists, first)
	require.Equal(t, int64(2), page.Total)
}

func TestSongListSingles(t *testing.T) {
	svc, _ := newSongFixture(t)
	ctx := context.Background()

	albumID := "album-1"
	_, err := svc.Create(ctx, "artist-1", SongCreateInput{Title: "On Album", AlbumID: &albumID, Duration: 180})
	require.NoError(t, err)
	single, err := svc.Create(ctx, "artist-1", SongCreateInput{Title: "Standalone", Duration: 190})
	require.NoError(t, err)

	page, err := svc.ListSingles(ctx, repository.SongFilter{})
	require.NoError(t, err)
	require.Len(t, page.Songs, 1)
	require.Equal(t, single.ID, page.Songs[0].ID)
}

func TestSongUpdateClearAlbumMakesSingle(t *testing.T) {
	svc, _ := newSongFixture(t)
	ctx := context.Background()

	albumID := "album-1"
	song, err := svc.Create(ctx, "artist-1", SongCreateInput{Title: "Tracked", AlbumID: &albumID, Duration: 180})
	require.NoError(t, err)
	require.False(t, song.IsSingle())

	updated, err := svc.Update(ctx, song.ID, SongUpdateInput{ClearAlbum: true})
	require.NoError(t, err)
	require.True(t, updated.IsSingle())
}

func TestSongDeleteRemovesFromStore(t *testing.T) {
	svc, _ := newSongFixture(t)
	ctx := context.Background()

	song, err := svc.Create(ctx, "artist-1", SongCreateInput{Title: "Doomed", Duration: 120})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, song.ID))
	_, err = svc.Get(ctx, song.ID)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestSongPagePagination(t *testing.T) {
	page := buildSongPage(make([]domain.Song, 10), 25, repository.SongFilter{Offset: 10, Limit: 10})
	require.Equal(t, 10, page.Skip)
	require.Equal(t, 10, page.Take)
	require.True(t, page.Next)
	require.True(t, page.Previous)

	last := buildSongPage(make([]domain.Song, 5), 25, repository.SongFilter{Offset: 20, Limit: 10})
	require.False(t, last.Next)
	require.True(t, last.Previous)
}
