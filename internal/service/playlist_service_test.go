package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/music-catalog/internal/domain"
	"github.com/spec-kit/music-catalog/internal/repository"
	apperrors "github.com/spec-kit/music-catalog/pkg/util/errorutil"
)

type memoryAlbumRepo struct {
	albums map[string]*domain.Album
}

func newMemoryAlbumRepo() *memoryAlbumRepo {
	return &memoryAlbumRepo{albums: map[string]*domain.Album{}}
}

func (r *memoryAlbumRepo) Create(_ context.Context, album *domain.Album) error {
	album.ID = uuid.NewString()
	album.CreatedAt = time.Now()
	album.UpdatedAt = album.CreatedAt
	stored := *album
	r.albums[album.ID] = &stored
	return nil
}

func (r *memoryAlbumRepo) Update(_ context.Context, album *domain.Album) error {
	if _, ok := r.albums[album.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *album
	r.albums[album.ID] = &stored
	return nil
}

func (r *memoryAlbumRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.albums[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.albums, id)
	return nil
}

func (r *memoryAlbumRepo) GetByID(_ context.Context, id string) (*domain.Album, error) {
	album, ok := r.albums[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *album
	return &found, nil
}

func (r *memoryAlbumRepo) List(_ context.Context, _ repository.AlbumFilter) ([]domain.Album, int64, error) {
	out := make([]domain.Album, 0, len(r.albums))
	for _, album := range r.albums {
		out = append(out, *album)
	}
	return out, int64(len(out)), nil
}

// memoryPlaylistRepo mirrors the SQL contract: song and album links are sets,
// album adds pull every song on the album, and artist follows land in a
// per-user library set.
type memoryPlaylistRepo struct {
	songs      *memorySongRepo
	playlists  map[string]*domain.Playlist
	songLinks  map[string]map[string]bool
	albumLinks map[string]map[string]bool
	followed   map[string]map[string]bool
}

func newMemoryPlaylistRepo(songs *memorySongRepo) *memoryPlaylistRepo {
	return &memoryPlaylistRepo{
		songs:      songs,
		playlists:  map[string]*domain.Playlist{},
		songLinks:  map[string]map[string]bool{},
		albumLinks: map[string]map[string]bool{},
		followed:   map[string]map[string]bool{},
	}
}

func (r *memoryPlaylistRepo) Create(_ context.Context, playlist *domain.Playlist) error {
	playlist.ID = uuid.NewString()
	playlist.CreatedAt = time.Now()
	playlist.UpdatedAt = playlist.CreatedAt
	stored := *playlist
	r.playlists[playlist.ID] = &stored
	r.songLinks[playlist.ID] = map[string]bool{}
	r.albumLinks[playlist.ID] = map[string]bool{}
	return nil
}

func (r *memoryPlaylistRepo) GetByID(_ context.Context, id string) (*domain.Playlist, error) {
	playlist, ok := r.playlists[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *playlist

	var ids []string
	for songID := range r.songLinks[id] {
		ids = append(ids, songID)
	}
	sort.Strings(ids)
	for _, songID := range ids {
		if song, ok := r.songs.songs[songID]; ok {
			found.Songs = append(found.Songs, *song)
		}
	}
	return &found, nil
}

func (r *memoryPlaylistRepo) ListByUser(_ context.Context, userID string) ([]domain.Playlist, error) {
	var out []domain.Playlist
	for _, playlist := range r.playlists {
		if playlist.UserID == userID {
			out = append(out, *playlist)
		}
	}
	return out, nil
}

func (r *memoryPlaylistRepo) ListPublic(_ context.Context) ([]domain.Playlist, error) {
	var out []domain.Playlist
	for _, playlist := range r.playlists {
		if playlist.IsPublic {
			out = append(out, *playlist)
		}
	}
	return out, nil
}

func (r *memoryPlaylistRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.playlists[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.playlists, id)
	delete(r.songLinks, id)
	delete(r.albumLinks, id)
	return nil
}

func (r *memoryPlaylistRepo) AddSong(_ context.Context, playlistID, songID, artistID string) error {
	playlist, ok := r.playlists[playlistID]
	if !ok {
		return pgx.ErrNoRows
	}
	r.songLinks[playlistID][songID] = true
	r.follow(playlist.UserID, artistID)
	return nil
}

func (r *memoryPlaylistRepo) RemoveSong(_ context.Context, playlistID, songID string) error {
	delete(r.songLinks[playlistID], songID)
	return nil
}

func (r *memoryPlaylistRepo) AddAlbum(_ context.Context, playlistID, albumID, artistID string) error {
	playlist, ok := r.playlists[playlistID]
	if !ok {
		return pgx.ErrNoRows
	}
	for _, song := range r.songs.songs {
		if song.AlbumID != nil && *song.AlbumID == albumID {
			r.songLinks[playlistID][song.ID] = true
		}
	}
	r.albumLinks[playlistID][albumID] = true
	r.follow(playlist.UserID, artistID)
	return nil
}

func (r *memoryPlaylistRepo) RemoveAlbum(_ context.Context, playlistID, albumID string) error {
	delete(r.albumLinks[playlistID], albumID)
	return nil
}

func (r *memoryPlaylistRepo) follow(userID, artistID string) {
	if r.followed[userID] == nil {
		r.followed[userID] = map[string]bool{}
	}
	r.followed[userID][artistID] = true
}

type playlistFixture struct {
	svc    *PlaylistService
	repo   *memoryPlaylistRepo
	songs  *memorySongRepo
	albums *memoryAlbumRepo
}

func newPlaylistFixture() *playlistFixture {
	songs := newMemorySongRepo()
	albums := newMemoryAlbumRepo()
	repo := newMemoryPlaylistRepo(songs)
	return &playlistFixture{
		svc:    NewPlaylistService(repo, songs, albums),
		repo:   repo,
		songs:  songs,
		albums: albums,
	}
}

func (f *playlistFixture) addAlbumWithSongs(t *testing.T, artistID, title string, songTitles ...string) (*domain.Album, []string) {
	t.Helper()
	ctx := context.Background()

	album := &domain.Album{Title: title, ArtistID: artistID}
	require.NoError(t, f.albums.Create(ctx, album))

	var songIDs []string
	for _, songTitle := range songTitles {
		song := &domain.Song{Title: songTitle, ArtistID: artistID, AlbumID: &album.ID, Duration: 180}
		require.NoError(t, f.songs.Create(ctx, song))
		songIDs = append(songIDs, song.ID)
	}
	return album, songIDs
}

func TestAddAlbumLinksEverySongAndFollowsArtist(t *testing.T) {
	f := newPlaylistFixture()
	ctx := context.Background()

	album, songIDs := f.addAlbumWithSongs(t, "artist-1", "First LP", "One", "Two", "Three")

	playlist, err := f.svc.Create(ctx, "user-1", "Road Trip", false)
	require.NoError(t, err)

	updated, err := f.svc.AddAlbum(ctx, "user-1", playlist.ID, album.ID)
	require.NoError(t, err)
	require.Len(t, updated.Songs, 3)
	for _, songID := range songIDs {
		require.True(t, f.repo.songLinks[playlist.ID][songID])
	}
	require.True(t, f.repo.albumLinks[playlist.ID][album.ID])
	require.True(t, f.repo.followed["user-1"]["artist-1"])
}

func TestAddAlbumTwiceIsIdempotent(t *testing.T) {
	f := newPlaylistFixture()
	ctx := context.Background()

	album, _ := f.addAlbumWithSongs(t, "artist-1", "First LP", "One", "Two")

	playlist, err := f.svc.Create(ctx, "user-1", "Road Trip", false)
	require.NoError(t, err)

	_, err = f.svc.AddAlbum(ctx, "user-1", playlist.ID, album.ID)
	require.NoError(t, err)
	updated, err := f.svc.AddAlbum(ctx, "user-1", playlist.ID, album.ID)
	require.NoError(t, err)
	require.Len(t, updated.Songs, 2)
}

func TestAddAlbumRejectsNonOwner(t *testing.T) {
	f := newPlaylistFixture()
	ctx := context.Background()

	album, _ := f.addAlbumWithSongs(t, "artist-1", "First LP", "One")

	playlist, err := f.svc.Create(ctx, "user-1", "Road Trip", false)
	require.NoError(t, err)

	_, err = f.svc.AddAlbum(ctx, "user-2", playlist.ID, album.ID)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestAddAlbumUnknownAlbumFails(t *testing.T) {
	f := newPlaylistFixture()
	ctx := context.Background()

	playlist, err := f.svc.Create(ctx, "user-1", "Road Trip", false)
	require.NoError(t, err)

	_, err = f.svc.AddAlbum(ctx, "user-1", playlist.ID, uuid.NewString())
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestRemoveAlbumKeepsItsSongs(t *testing.T) {
	f := newPlaylistFixture()
	ctx := context.Background()

	album, _ := f.addAlbumWithSongs(t, "artist-1", "First LP", "One", "Two")

	playlist, err := f.svc.Create(ctx, "user-1", "Road Trip", false)
	require.NoError(t, err)

	_, err = f.svc.AddAlbum(ctx, "user-1", playlist.ID, album.ID)
	require.NoError(t, err)

	// Only the album link goes away; songs stay until removed one by one.
	updated, err := f.svc.RemoveAlbum(ctx, "user-1", playlist.ID, album.ID)
	require.NoError(t, err)
	require.Len(t, updated.Songs, 2)
	require.False(t, f.repo.albumLinks[playlist.ID][album.ID])
}
