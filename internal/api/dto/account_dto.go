package dto

import "time"

// RegisterUserRequest payload.
type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterArtistRequest payload.
type RegisterArtistRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Bio      *string `json:"bio"`
}

// UpdateUserRequest renames an account.
type UpdateUserRequest struct {
	Name string `json:"name"`
}

// UpdateArtistRequest carries partial artist profile updates.
type UpdateArtistRequest struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

// UserResponse is the public view of an end-user account.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ArtistResponse is the public view of an artist account.
type ArtistResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Bio       *string   `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PageMeta describes a paginated window.
type PageMeta struct {
	Skip     int   `json:"skip"`
	Take     int   `json:"take"`
	Total    int64 `json:"total"`
	Next     bool  `json:"next"`
	Previous bool  `json:"previous"`
}
