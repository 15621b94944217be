package domain

import "time"

// Album groups songs under an artist.
type Album struct {
	ID         string
	Title      string
	ArtistID   string
	CoverURL   *string
	ReleasedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
