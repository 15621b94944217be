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

// ArtistsHandler manages artist account endpoints.
type ArtistsHandler struct {
	service *service.ArtistService
}

// NewArtistsHandler constructs handler.
func NewArtistsHandler(artistService *service.ArtistService) *ArtistsHandler {
	return &ArtistsHandler{service: artistService}
}

// Register POST /artists.
func (h *ArtistsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterArtistRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}
	artist, err := h.service.Register(c.UserContext(), req.Name, req.Email, req.Password, req.Bio)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": artistResponse(artist)})
}

// GetArtist GET /artists/:id.
func (h *ArtistsHandler) GetArtist(c *fiber.Ctx) error {
	artist, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": artistResponse(artist)})
}

// GetArtistByName GET /artists/by-name/:name.
func (h *ArtistsHandler) GetArtistByName(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("name"))
	if name == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	artist, err := h.service.GetByName(c.UserContext(), name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": artistResponse(artist)})
}

// ListArtists GET /artists.
func (h *ArtistsHandler) ListArtists(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), parseAccountQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.ArtistResponse, 0, len(page.Artists))
	for i := range page.Artists {
		items = append(items, artistResponse(&page.Artists[i]))
	}
	return c.JSON(fiber.Map{"data": items, "meta": pageMeta(page.Skip, page.Take, page.Total, page.Next, page.Previous)})
}

// UpdateMe PATCH /artists/me.
func (h *ArtistsHandler) UpdateMe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateArtistRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == nil && req.Bio == nil {
		return apperrors.NewValidationError("nothing to update", nil)
	}
	artist, err := h.service.Update(c.UserContext(), principal.ID, service.ArtistUpdateInput{Name: req.Name, Bio: req.Bio})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": artistResponse(artist)})
}

// DeleteMe DELETE /artists/me.
func (h *ArtistsHandler) DeleteMe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.UserContext(), principal.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func artistResponse(artist *domain.Artist) dto.ArtistResponse {
	return dto.ArtistResponse{
		ID:        artist.ID,
		Name:      artist.Name,
		Email:     artist.Email,
		Role:      artist.Role,
		Bio:       artist.Bio,
		CreatedAt: artist.CreatedAt,
		UpdatedAt: artist.UpdatedAt,
	}
}
