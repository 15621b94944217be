package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/music-catalog/internal/domain"
)

// LibraryResource names the membership kinds a library can hold.
type LibraryResource string

const (
	LibraryResourceSong     LibraryResource = "song"
	LibraryResourceAlbum    LibraryResource = "album"
	LibraryResourcePlaylist LibraryResource = "playlist"
)

var libraryJoinTables = map[LibraryResource]struct{ table, column string }{
	LibraryResourceSong:     {"library_songs", "song_id"},
	LibraryResourceAlbum:    {"library_albums", "album_id"},
	LibraryResourcePlaylist: {"library_playlists", "playlist_id"},
}

// LibraryRepository manages a user's saved catalog membership.
type LibraryRepository interface {
	// GetByUser loads the library with its saved songs, albums and playlists,
	// creating the library row lazily.
	GetByUser(ctx context.Context, userID string) (*domain.Library, error)
	Add(ctx context.Context, userID string, resource LibraryResource, resourceID string) error
	Remove(ctx context.Context, userID string, resource LibraryResource, resourceID string) error
}

type libraryRepository struct {
	pool *pgxpool.Pool
}

// NewLibraryRepository instantiates repository.
func NewLibraryRepository(pool *pgxpool.Pool) LibraryRepository {
	return &libraryRepository{pool: pool}
}

func (r *libraryRepository) ensure(ctx context.Context, userID string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
        INSERT INTO libraries (user_id) VALUES ($1)
        ON CONFLICT (user_id) DO UPDATE SET user_id=EXCLUDED.user_id
        RETURNING id`, userID).Scan(&id)
	return id, err
}

func (r *libraryRepository) GetByUser(ctx context.Context, userID string) (*domain.Library, error) {
	id, err := r.ensure(ctx, userID)
	if err != nil {
		return nil, err
	}

	library := &domain.Library{ID: id, UserID: userID}
	if err := r.pool.QueryRow(ctx,
		`SELECT created_at FROM libraries WHERE id=$1`, id).Scan(&library.CreatedAt); err != nil {
		return nil, err
	}

	if library.Songs, err = r.songs(ctx, id); err != nil {
		return nil, err
	}
	if library.Albums, err = r.albums(ctx, id); err != nil {
		return nil, err
	}
	if library.Playlists, err = r.playlists(ctx, id); err != nil {
		return nil, err
	}
	if library.Artists, err = r.artists(ctx, id); err != nil {
		return nil, err
	}
	return library, nil
}

func (r *libraryRepository) Add(ctx context.Context, userID string, resource LibraryResource, resourceID string) error {
	join, ok := libraryJoinTables[resource]
	if !ok {
		return errUnknownLibraryResource(resource)
	}
	id, err := r.ensure(ctx, userID)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
        INSERT INTO `+join.table+` (library_id, `+join.column+`)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING`, id, resourceID)
	return err
}

func (r *libraryRepository) Remove(ctx context.Context, userID string, resource LibraryResource, resourceID string) error {
	join, ok := libraryJoinTables[resource]
	if !ok {
		return errUnknownLibraryResource(resource)
	}
	id, err := r.ensure(ctx, userID)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
        DELETE FROM `+join.table+` WHERE library_id=$1 AND `+join.column+`=$2`, id, resourceID)
	return err
}

func (r *libraryRepository) songs(ctx context.Context, libraryID string) ([]domain.Song, error) {
	const query = `
        SELECT s.id, s.title, s.artist_id, s.album_id, s.duration_seconds, s.released_at, s.created_at, s.updated_at
        FROM songs s JOIN library_songs ls ON ls.song_id = s.id
        WHERE ls.library_id=$1 ORDER BY s.title`

	rows, err := r.pool.Query(ctx, query, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []domain.Song
	for rows.Next() {
		var song domain.Song
		if err := rows.Scan(
			&song.ID, &song.Title, &song.ArtistID, &song.AlbumID,
			&song.Duration, &song.ReleasedAt, &song.CreatedAt, &song.UpdatedAt,
		); err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

func (r *libraryRepository) albums(ctx context.Context, libraryID string) ([]domain.Album, error) {
	const query = `
        SELECT a.id, a.title, a.artist_id, a.cover_url, a.released_at, a.created_at, a.updated_at
        FROM albums a JOIN library_albums la ON la.album_id = a.id
        WHERE la.library_id=$1 ORDER BY a.title`

	rows, err := r.pool.Query(ctx, query, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []domain.Album
	for rows.Next() {
		var album domain.Album
		if err := rows.Scan(
			&album.ID, &album.Title, &album.ArtistID, &album.CoverURL,
			&album.ReleasedAt, &album.CreatedAt, &album.UpdatedAt,
		); err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}
	return albums, rows.Err()
}

func (r *libraryRepository) playlists(ctx context.Context, libraryID string) ([]domain.Playlist, error) {
	const query = `
        SELECT p.id, p.name, p.user_id, p.is_public, p.created_at, p.updated_at
        FROM playlists p JOIN library_playlists lp ON lp.playlist_id = p.id
        WHERE lp.library_id=$1 ORDER BY p.name`

	rows, err := r.pool.Query(ctx, query, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlists []domain.Playlist
	for rows.Next() {
		var playlist domain.Playlist
		if err := rows.Scan(
			&playlist.ID, &playlist.Name, &playlist.UserID, &playlist.IsPublic,
			&playlist.CreatedAt, &playlist.UpdatedAt,
		); err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}
	return playlists, rows.Err()
}

func (r *libraryRepository) artists(ctx context.Context, libraryID string) ([]domain.Artist, error) {
	const query = `
        SELECT a.id, a.name, a.email, a.password_hash, a.role, a.bio, a.created_at, a.updated_at
        FROM artists a JOIN library_artists la ON la.artist_id = a.id
        WHERE la.library_id=$1 ORDER BY a.name`

	rows, err := r.pool.Query(ctx, query, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []domain.Artist
	for rows.Next() {
		var artist domain.Artist
		if err := rows.Scan(
			&artist.ID, &artist.Name, &artist.Email, &artist.PasswordHash,
			&artist.Role, &artist.Bio, &artist.CreatedAt, &artist.UpdatedAt,
		); err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}
	return artists, rows.Err()
}

type errUnknownLibraryResource LibraryResource

func (e errUnknownLibraryResource) Error() string {
	return "unknown library resource: " + string(e)
}
