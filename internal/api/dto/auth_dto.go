package dto

import "github.com/spec-kit/music-catalog/internal/domain"

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries the refresh token to rotate.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest revokes a single refresh token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse returns the issued pair plus a sanitized account summary.
type AuthResponse struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	Principal    domain.PrincipalInfo `json:"principal"`
}

// TokenPairResponse returns a rotated token pair.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
