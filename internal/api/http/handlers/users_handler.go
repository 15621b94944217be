package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/music-catalog/internal/api/dto"
	"github.com/spec-kit/music-catalog/internal/auth"
	"github.com/spec-kit/music-catalog/internal/domain"
	"github.com/spec-kit/music-catalog/internal/service"
	apperrors "github.com/spec-kit/music-catalog/pkg/util/errorutil"
)

// UsersHandler manages end-user account endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// Register POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}
	user, err := h.service.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// Me GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, err := h.service.Get(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// GetUser GET /users/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// ListUsers GET /users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), parseAccountQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(page.Users))
	for i := range page.Users {
		items = append(items, userResponse(&page.Users[i]))
	}
	return c.JSON(fiber.Map{"data": items, "meta": pageMeta(page.Skip, page.Take, page.Total, page.Next, page.Previous)})
}

// UpdateMe PATCH /users/me.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	user, err := h.service.UpdateName(c.UserContext(), principal.ID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// DeleteMe DELETE /users/me.
func (h *UsersHandler) DeleteMe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.UserContext(), principal.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func pageMeta(skip, take int, total int64, next, previous bool) dto.PageMeta {
	return dto.PageMeta{Skip: skip, Take: take, Total: total, Next: next, Previous: previous}
}
