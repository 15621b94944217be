package dto

import "time"

// CreatePlaylistRequest payload.
type CreatePlaylistRequest struct {
	Name     string `json:"name"`
	IsPublic bool   `json:"is_public"`
}

// PlaylistSongRequest attaches a song to a playlist.
type PlaylistSongRequest struct {
	SongID string `json:"song_id"`
}

// PlaylistResponse is the public view of a playlist.
type PlaylistResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	UserID    string         `json:"user_id"`
	IsPublic  bool           `json:"is_public"`
	Songs     []SongResponse `json:"songs"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// LibraryItemRequest adds or removes a saved resource.
type LibraryItemRequest struct {
	Resource string `json:"resource"`
	ID       string `json:"id"`
}

// LibraryResponse is the full saved-catalog view for one user.
type LibraryResponse struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Songs     []SongResponse     `json:"songs"`
	Albums    []AlbumResponse    `json:"albums"`
	Playlists []PlaylistResponse `json:"playlists"`
	Artists   []ArtistResponse   `json:"artists"`
	CreatedAt time.Time          `json:"created_at"`
}
