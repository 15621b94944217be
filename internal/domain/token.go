package domain

import "time"

// RefreshToken is a durable record of an issued refresh token. The full signed
// string is the lookup key. Exactly one of UserID/ArtistID is set, matching the
// owning principal's variant. ExpiresIn is the validity window in seconds,
// measured from CreatedAt.
type RefreshToken struct {
	ID        string
	Token     string
	UserID    *string
	ArtistID  *string
	ExpiresIn int64
	CreatedAt time.Time
}

// NewRefreshToken builds an unsaved record keyed to the given principal.
func NewRefreshToken(token, subjectID string, subjectType SubjectType, expiresIn int64) *RefreshToken {
	rec := &RefreshToken{Token: token, ExpiresIn: expiresIn}
	if subjectType == SubjectTypeArtist {
		rec.ArtistID = &subjectID
	} else {
		rec.UserID = &subjectID
	}
	return rec
}

// SubjectID returns the owning principal identifier.
func (t *RefreshToken) SubjectID() string {
	if t.ArtistID != nil {
		return *t.ArtistID
	}
	if t.UserID != nil {
		return *t.UserID
	}
	return ""
}

// SubjectType returns the owning principal variant.
func (t *RefreshToken) SubjectType() SubjectType {
	if t.ArtistID != nil {
		return SubjectTypeArtist
	}
	return SubjectTypeUser
}

// ExpiredAt reports whether the record's own validity window has passed at the
// given instant.
func (t *RefreshToken) ExpiredAt(now time.Time) bool {
	age := int64(now.Sub(t.CreatedAt) / time.Second)
	return age > t.ExpiresIn
}

// TokenPair bundles the two credentials returned by sign-in and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
