package domain

import "time"

// User is the domain model for end-users of the catalog. Email is unique
// within the users table only; an artist may hold the same address.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
