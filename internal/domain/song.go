package domain

import "time"

// Song is a catalog track. AlbumID is nil for singles.
type Song struct {
	ID         string
	Title      string
	ArtistID   string
	AlbumID    *string
	Duration   int
	ReleasedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsSingle reports whether the song belongs to no album.
func (s *Song) IsSingle() bool {
	return s.AlbumID == nil
}
