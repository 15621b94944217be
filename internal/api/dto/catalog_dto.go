package dto

import "time"

// CreateSongRequest payload.
type CreateSongRequest struct {
	Title      string     `json:"title"`
	AlbumID    *string    `json:"album_id"`
	Duration   int        `json:"duration"`
	ReleasedAt *time.Time `json:"released_at"`
}

// UpdateSongRequest carries partial song updates. ClearAlbum detaches the
// song from its album, turning it into a single.
type UpdateSongRequest struct {
	Title      *string    `json:"title"`
	AlbumID    *string    `json:"album_id"`
	ClearAlbum bool       `json:"clear_album"`
	Duration   *int       `json:"duration"`
	ReleasedAt *time.Time `json:"released_at"`
}

// SongResponse is the public view of a track.
type SongResponse struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	ArtistID   string     `json:"artist_id"`
	AlbumID    *string    `json:"album_id"`
	Duration   int        `json:"duration"`
	Single     bool       `json:"single"`
	ReleasedAt *time.Time `json:"released_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CreateAlbumRequest payload.
type CreateAlbumRequest struct {
	Title      string     `json:"title"`
	CoverURL   *string    `json:"cover_url"`
	ReleasedAt *time.Time `json:"released_at"`
}

// UpdateAlbumRequest carries partial album updates.
type UpdateAlbumRequest struct {
	Title      *string    `json:"title"`
	CoverURL   *string    `json:"cover_url"`
	ReleasedAt *time.Time `json:"released_at"`
}

// AlbumResponse is the public view of an album.
type AlbumResponse struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	ArtistID   string     `json:"artist_id"`
	CoverURL   *string    `json:"cover_url"`
	ReleasedAt *time.Time `json:"released_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
