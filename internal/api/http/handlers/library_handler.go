package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/music-catalog/internal/api/dto"
	"github.com/spec-kit/music-catalog/internal/domain"
	"github.com/spec-kit/music-catalog/internal/repository"
	"github.com/spec-kit/music-catalog/internal/service"
	apperrors "github.com/spec-kit/music-catalog/pkg/util/errorutil"
)

// LibraryHandler manages the caller's saved catalog.
type LibraryHandler struct {
	service *service.LibraryService
}

// NewLibraryHandler constructs handler.
func NewLibraryHandler(libraryService *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{service: libraryService}
}

// GetLibrary GET /library.
func (h *LibraryHandler) GetLibrary(c *fiber.Ctx) error {
	principal, err := userPrincipal(c)
	if err != nil {
		return err
	}
	library, err := h.service.Get(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": libraryResponse(library)})
}

// AddItem POST /library/items.
func (h *LibraryHandler) AddItem(c *fiber.Ctx) error {
	principal, err := userPrincipal(c)
	if err != nil {
		return err
	}
	req, err := parseLibraryItem(c)
	if err != nil {
		return err
	}
	if err := h.service.Add(c.UserContext(), principal.ID, repository.LibraryResource(req.Resource), req.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveItem DELETE /library/items.
func (h *LibraryHandler) RemoveItem(c *fiber.Ctx) error {
	principal, err := userPrincipal(c)
	if err != nil {
		return err
	}
	req, err := parseLibraryItem(c)
	if err != nil {
		return err
	}
	if err := h.service.Remove(c.UserContext(), principal.ID, repository.LibraryResource(req.Resource), req.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseLibraryItem(c *fiber.Ctx) (*dto.LibraryItemRequest, error) {
	var req dto.LibraryItemRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Resource == "" || req.ID == "" {
		return nil, apperrors.NewValidationError("resource and id required", nil)
	}
	switch repository.LibraryResource(req.Resource) {
	case repository.LibraryResourceSong, repository.LibraryResourceAlbum, repository.LibraryResourcePlaylist:
	default:
		return nil, apperrors.NewValidationError("resource must be song, album or playlist", nil)
	}
	return &req, nil
}

func libraryResponse(library *domain.Library) dto.LibraryResponse {
	artists := make([]dto.ArtistResponse, 0, len(library.Artists))
	for i := range library.Artists {
		artists = append(artists, artistResponse(&library.Artists[i]))
	}
	return dto.LibraryResponse{
		ID:        library.ID,
		UserID:    library.UserID,
		Songs:     songResponses(library.Songs),
		Albums:    albumResponses(library.Albums),
		Playlists: playlistResponses(library.Playlists),
		Artists:   artists,
		CreatedAt: library.CreatedAt,
	}
}
