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

// AlbumsHandler manages album endpoints. Reads are public; mutations
// require the owning artist.
type AlbumsHandler struct {
	service *service.AlbumService
}

// NewAlbumsHandler constructs handler.
func NewAlbumsHandler(albumService *service.AlbumService) *AlbumsHandler {
	return &AlbumsHandler{service: albumService}
}

// CreateAlbum POST /albums.
func (h *AlbumsHandler) CreateAlbum(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("artist required")
	}
	var req dto.CreateAlbumRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" {
		return apperrors.NewValidationError("title required", nil)
	}
	album, err := h.service.Create(c.UserContext(), principal.ID, service.AlbumCreateInput{
		Title:      req.Title,
		CoverURL:   req.CoverURL,
		ReleasedAt: req.ReleasedAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": albumResponse(album)})
}

// ListAlbums GET /albums.
func (h *AlbumsHandler) ListAlbums(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), parseAlbumQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": albumResponses(page.Albums), "meta": pageMeta(page.Skip, page.Take, page.Total, page.Next, page.Previous)})
}

// GetAlbum GET /albums/:id.
func (h *AlbumsHandler) GetAlbum(c *fiber.Ctx) error {
	album, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": albumResponse(album)})
}

// ListByArtist GET /artists/:id/albums.
func (h *AlbumsHandler) ListByArtist(c *fiber.Ctx) error {
	albums, err := h.service.ListByArtist(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": albumResponses(albums)})
}

// UpdateAlbum PATCH /albums/:id.
func (h *AlbumsHandler) UpdateAlbum(c *fiber.Ctx) error {
	album, err := h.ownedAlbum(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAlbumRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	updated, err := h.service.Update(c.UserContext(), album.ID, service.AlbumUpdateInput{
		Title:      req.Title,
		CoverURL:   req.CoverURL,
		ReleasedAt: req.ReleasedAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": albumResponse(updated)})
}

// DeleteAlbum DELETE /albums/:id.
func (h *AlbumsHandler) DeleteAlbum(c *fiber.Ctx) error {
	album, err := h.ownedAlbum(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), album.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AlbumsHandler) ownedAlbum(c *fiber.Ctx) (*domain.Album, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("artist required")
	}
	album, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	if album.ArtistID != principal.ID {
		return nil, apperrors.NewForbidden("not the album owner")
	}
	return album, nil
}

func albumResponse(album *domain.Album) dto.AlbumResponse {
	return dto.AlbumResponse{
		ID:         album.ID,
		Title:      album.Title,
		ArtistID:   album.ArtistID,
		CoverURL:   album.CoverURL,
		ReleasedAt: album.ReleasedAt,
		CreatedAt:  album.CreatedAt,
		UpdatedAt:  album.UpdatedAt,
	}
}

func albumResponses(albums []domain.Album) []dto.AlbumResponse {
	items := make([]dto.AlbumResponse, 0, len(albums))
	for i := range albums {
		items = append(items, albumResponse(&albums[i]))
	}
	return items
}
