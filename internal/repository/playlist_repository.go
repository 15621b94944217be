package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/music-catalog/internal/domain"
)

// PlaylistRepository encapsulates playlist persistence. Playlist creation
// lazily materializes the owner's library row.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *domain.Playlist) error
	GetByID(ctx context.Context, id string) (*domain.Playlist, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Playlist, error)
	ListPublic(ctx context.Context) ([]domain.Playlist, error)
	Delete(ctx context.Context, id string) error
	// AddSong links a song to the playlist and follows the song's artist in
	// the owner's library, in one transaction. Re-adding is a no-op.
	AddSong(ctx context.Context, playlistID, songID, artistID string) error
	RemoveSong(ctx context.Context, playlistID, songID string) error
	// AddAlbum links an album and all of its songs to the playlist and
	// follows the album's artist, in one transaction. Re-adding is a no-op.
	AddAlbum(ctx context.Context, playlistID, albumID, artistID string) error
	// RemoveAlbum unlinks the album record only; songs added through it stay
	// in the playlist until removed individually.
	RemoveAlbum(ctx context.Context, playlistID, albumID string) error
}

type playlistRepository struct {
	pool *pgxpool.Pool
}

// NewPlaylistRepository instantiates repository.
func NewPlaylistRepository(pool *pgxpool.Pool) PlaylistRepository {
	return &playlistRepository{pool: pool}
}

func (r *playlistRepository) Create(ctx context.Context, playlist *domain.Playlist) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var libraryID string
	if err := tx.QueryRow(ctx, `
        INSERT INTO libraries (user_id) VALUES ($1)
        ON CONFLICT (user_id) DO UPDATE SET user_id=EXCLUDED.user_id
        RETURNING id`, playlist.UserID).Scan(&libraryID); err != nil {
		return err
	}

	if err := tx.QueryRow(ctx, `
        INSERT INTO playlists (name, user_id, library_id, is_public)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`,
		playlist.Name,
		playlist.UserID,
		libraryID,
		playlist.IsPublic,
	).Scan(&playlist.ID, &playlist.CreatedAt, &playlist.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *playlistRepository) GetByID(ctx context.Context, id string) (*domain.Playlist, error) {
	const query = `
        SELECT id, name, user_id, is_public, created_at, updated_at
        FROM playlists WHERE id=$1`

	var playlist domain.Playlist
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&playlist.ID,
		&playlist.Name,
		&playlist.UserID,
		&playlist.IsPublic,
		&playlist.CreatedAt,
		&playlist.UpdatedAt,
	); err != nil {
		return nil, err
	}

	songs, err := r.playlistSongs(ctx, playlist.ID)
	if err != nil {
		return nil, err
	}
	playlist.Songs = songs
	return &playlist, nil
}

func (r *playlistRepository) ListByUser(ctx context.Context, userID string) ([]domain.Playlist, error) {
	const query = `
        SELECT id, name, user_id, is_public, created_at, updated_at
        FROM playlists WHERE user_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *playlistRepository) ListPublic(ctx context.Context) ([]domain.Playlist, error) {
	const query = `
        SELECT id, name, user_id, is_public, created_at, updated_at
        FROM playlists WHERE is_public ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *playlistRepository) list(ctx context.Context, query string, args ...any) ([]domain.Playlist, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlists []domain.Playlist
	for rows.Next() {
		var playlist domain.Playlist
		if err := rows.Scan(
			&playlist.ID,
			&playlist.Name,
			&playlist.UserID,
			&playlist.IsPublic,
			&playlist.CreatedAt,
			&playlist.UpdatedAt,
		); err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}
	return playlists, rows.Err()
}

func (r *playlistRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM playlists WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *playlistRepository) AddSong(ctx context.Context, playlistID, songID, artistID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `
        INSERT INTO playlist_songs (playlist_id, song_id)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING`, playlistID, songID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
        INSERT INTO library_artists (library_id, artist_id)
        SELECT p.library_id, $2 FROM playlists p WHERE p.id=$1
        ON CONFLICT DO NOTHING`, playlistID, artistID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *playlistRepository) AddAlbum(ctx context.Context, playlistID, albumID, artistID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `
        INSERT INTO playlist_songs (playlist_id, song_id)
        SELECT $1, s.id FROM songs s WHERE s.album_id=$2
        ON CONFLICT DO NOTHING`, playlistID, albumID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
        INSERT INTO playlist_albums (playlist_id, album_id)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING`, playlistID, albumID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
        INSERT INTO library_artists (library_id, artist_id)
        SELECT p.library_id, $2 FROM playlists p WHERE p.id=$1
        ON CONFLICT DO NOTHING`, playlistID, artistID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *playlistRepository) RemoveAlbum(ctx context.Context, playlistID, albumID string) error {
	_, err := r.pool.Exec(ctx, `
        DELETE FROM playlist_albums WHERE playlist_id=$1 AND album_id=$2`, playlistID, albumID)
	return err
}

func (r *playlistRepository) RemoveSong(ctx context.Context, playlistID, songID string) error {
	_, err := r.pool.Exec(ctx, `
        DELETE FROM playlist_songs WHERE playlist_id=$1 AND song_id=$2`, playlistID, songID)
	return err
}

func (r *playlistRepository) playlistSongs(ctx context.Context, playlistID string) ([]domain.Song, error) {
	const query = `
        SELECT s.id, s.title, s.artist_id, s.album_id, s.duration_seconds, s.released_at, s.created_at, s.updated_at
        FROM songs s
        JOIN playlist_songs ps ON ps.song_id = s.id
        WHERE ps.playlist_id=$1
        ORDER BY s.created_at`

	rows, err := r.pool.Query(ctx, query, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []domain.Song
	for rows.Next() {
		var song domain.Song
		if err := rows.Scan(
			&song.ID,
			&song.Title,
			&song.ArtistID,
			&song.AlbumID,
			&song.Duration,
			&song.ReleasedAt,
			&song.CreatedAt,
			&song.UpdatedAt,
		); err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}
