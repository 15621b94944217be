package service

import (
	"context"

	"github.com/spec-kit/music-catalog/internal/domain"
	"github.com/spec-kit/music-catalog/internal/repository"
	apperrors "github.com/spec-kit/music-catalog/pkg/util/errorutil"
)

// PlaylistService manages user playlists.
type PlaylistService struct {
	playlists repository.PlaylistRepository
	songs     repository.SongRepository
	albums    repository.AlbumRepository
}

// NewPlaylistService builds the service.
func NewPlaylistService(playlists repository.PlaylistRepository, songs repository.SongRepository, albums repository.AlbumRepository) *PlaylistService {
	return &PlaylistService{playlists: playlists, songs: songs, albums: albums}
}

// Create stores a new playlist for the owner. The owner's library row is
// created lazily alongside it.
func (s *PlaylistService) Create(ctx context.Context, userID, name string, isPublic bool) (*domain.Playlist, error) {
	playlist := &domain.Playlist{
		Name:     name,
		UserID:   userID,
		IsPublic: isPublic,
	}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// Get fetches a playlist with its songs. Private playlists are visible to the
// owner only.
func (s *PlaylistService) Get(ctx context.Context, requesterID, playlistID string) (*domain.Playlist, error) {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if !playlist.IsPublic && playlist.UserID != requesterID {
		return nil, apperrors.NewForbidden("playlist is private")
	}
	return playlist, nil
}

// ListMine returns the requester's playlists.
func (s *PlaylistService) ListMine(ctx context.Context, userID string) ([]domain.Playlist, error) {
	return s.playlists.ListByUser(ctx, userID)
}

// ListPublic returns all public playlists.
func (s *PlaylistService) ListPublic(ctx context.Context) ([]domain.Playlist, error) {
	return s.playlists.ListPublic(ctx)
}

// AddSong links a song into the playlist and follows the song's artist in the
// owner's library. Only the owner may mutate a playlist.
func (s *PlaylistService) AddSong(ctx context.Context, requesterID, playlistID, songID string) (*domain.Playlist, error) {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.UserID != requesterID {
		return nil, apperrors.NewForbidden("not the playlist owner")
	}

	song, err := s.songs.GetByID(ctx, songID)
	if err != nil {
		return nil, err
	}

	if err := s.playlists.AddSong(ctx, playlistID, song.ID, song.ArtistID); err != nil {
		return nil, err
	}
	return s.playlists.GetByID(ctx, playlistID)
}

// RemoveSong unlinks a song from the playlist.
func (s *PlaylistService) RemoveSong(ctx context.Context, requesterID, playlistID, songID string) (*domain.Playlist, error) {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.UserID != requesterID {
		return nil, apperrors.NewForbidden("not the playlist owner")
	}

	if err := s.playlists.RemoveSong(ctx, playlistID, songID); err != nil {
		return nil, err
	}
	return s.playlists.GetByID(ctx, playlistID)
}

// AddAlbum links an album and all of its songs into the playlist and follows
// the album's artist in the owner's library.
func (s *PlaylistService) AddAlbum(ctx context.Context, requesterID, playlistID, albumID string) (*domain.Playlist, error) {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.UserID != requesterID {
		return nil, apperrors.NewForbidden("not the playlist owner")
	}

	album, err := s.albums.GetByID(ctx, albumID)
	if err != nil {
		return nil, err
	}

	if err := s.playlists.AddAlbum(ctx, playlistID, album.ID, album.ArtistID); err != nil {
		return nil, err
	}
	return s.playlists.GetByID(ctx, playlistID)
}

// RemoveAlbum unlinks the album from the playlist. Songs that came in with
// the album remain until removed individually.
func (s *PlaylistService) RemoveAlbum(ctx context.Context, requesterID, playlistID, albumID string) (*domain.Playlist, error) {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.UserID != requesterID {
		return nil, apperrors.NewForbidden("not the playlist owner")
	}

	if err := s.playlists.RemoveAlbum(ctx, playlistID, albumID); err != nil {
		return nil, err
	}
	return s.playlists.GetByID(ctx, playlistID)
}

// Delete removes the playlist. Only the owner may delete it.
func (s *PlaylistService) Delete(ctx context.Context, requesterID, playlistID string) error {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if playlist.UserID != requesterID {
		return apperrors.NewForbidden("not the playlist owner")
	}
	return s.playlists.Delete(ctx, playlistID)
}
