package events

import (
	"time"

	"github.com/spec-kit/music-catalog/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPrincipalSignedIn EventType = "principal_signed_in"
	EventTokenRotated      EventType = "token_rotated"
	EventTokenRevoked      EventType = "token_revoked"
	EventSongCreated       EventType = "song_created"
	EventSongUpdated       EventType = "song_updated"
	EventSongDeleted       EventType = "song_deleted"
	EventAlbumCreated      EventType = "album_created"
	EventAlbumUpdated      EventType = "album_updated"
	EventAlbumDeleted      EventType = "album_deleted"
)

// Actor encapsulates the principal that triggered an event.
type Actor struct {
	Type domain.SubjectType `json:"type"`
	ID   string             `json:"id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SignedInPayload payload.
type SignedInPayload struct {
	Email string `json:"email"`
}

// TokenRotatedPayload payload.
type TokenRotatedPayload struct {
	SubjectID string `json:"subject_id"`
}

// TokenRevokedPayload payload.
type TokenRevokedPayload struct {
	AllDevices bool `json:"all_devices"`
}

// SongPayload payload for song mutations.
type SongPayload struct {
	SongID   string  `json:"song_id"`
	Title    string  `json:"title"`
	ArtistID string  `json:"artist_id"`
	AlbumID  *string `json:"album_id,omitempty"`
}

// AlbumPayload payload for album mutations.
type AlbumPayload struct {
	AlbumID  string `json:"album_id"`
	Title    string `json:"title"`
	ArtistID string `json:"artist_id"`
}
