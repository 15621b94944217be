package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/music-catalog/internal/api/dto"
	"github.com/spec-kit/music-catalog/internal/auth"
	"github.com/spec-kit/music-catalog/internal/service"
	apperrors "github.com/spec-kit/music-catalog/pkg/util/errorutil"
)

// AuthHandler exposes the sign-in and token lifecycle endpoints. Both
// end-users and artists authenticate here; the email decides which store
// the credentials are checked against.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	result, err := h.service.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		Principal:    result.Principal,
	}})
}

// Refresh POST /auth/refresh. Rotation is observable: the presented refresh
// token is consumed and a full new pair comes back.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RefreshToken == "" {
		return apperrors.NewValidationError("refresh_token required", nil)
	}
	pair, err := h.service.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}})
}

// Logout POST /auth/logout. Revokes the presented refresh token only.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RefreshToken == "" {
		return apperrors.NewValidationError("refresh_token required", nil)
	}
	if err := h.service.Logout(c.UserContext(), req.RefreshToken); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LogoutAllDevices POST /auth/logout/all. Revokes every refresh token held
// by the authenticated caller.
func (h *AuthHandler) LogoutAllDevices(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.LogoutAllDevices(c.UserContext(), principal.ID, principal.Type); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
