package domain

import "time"

// Artist models a content-owning artist account. Artists authenticate through
// the same sign-in flow as users but live in their own table with their own
// email uniqueness constraint.
type Artist struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Bio          *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
