package domain

import "time"

// Playlist is a user-curated set of songs. Public playlists are listable
// without authentication.
type Playlist struct {
	ID        string
	Name      string
	UserID    string
	IsPublic  bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Songs     []Song
}

// Library is a user's saved catalog membership: songs, albums, playlists and
// artists the user follows. One library per user, created lazily.
type Library struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	Songs     []Song
	Albums    []Album
	Playlists []Playlist
	Artists   []Artist
}
