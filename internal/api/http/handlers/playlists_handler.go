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

// PlaylistsHandler manages playlist endpoints. Only end-users curate
// playlists; public ones are browsable without credentials.
type PlaylistsHandler struct {
	service *service.PlaylistService
}

// NewPlaylistsHandler constructs handler.
func NewPlaylistsHandler(playlistService *service.PlaylistService) *PlaylistsHandler {
	return &PlaylistsHandler{service: playlistService}
}

// CreatePlaylist POST /playlists.
func (h *PlaylistsHandler) CreatePlaylist(c *fiber.Ctx) error {
	principal, err := userPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreatePlaylistRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	playlist, err := h.service.Create(c.UserContext(), principal.ID, req.Name, req.IsPublic)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": playlistResponse(playlist)})
}

// GetPlaylist GET /playlists/:id. Private playlists are visible to their
// owner only.
func (h *PlaylistsHandler) GetPlaylist(c *fiber.Ctx) error {
	requesterID := ""
	if principal, ok := auth.PrincipalFromContext(c); ok {
		requesterID = principal.ID
	}
	playlist, err := h.service.Get(c.UserContext(), requesterID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": playlistResponse(playlist)})
}

// ListMine GET /playlists/mine.
func (h *PlaylistsHandler) ListMine(c *fiber.Ctx) error {
	principal, err := userPrincipal(c)
	if err != nil {
		return err
	}
	playlists, err := h.service.ListMine(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": playlistResponses(playlists)})
}

// ListPublic GET /playlists.
func (h *PlaylistsHandler) ListPublic(c *fiber.Ctx) error {
	playlists, err := h.service.ListPublic(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": playlistResponses(playlists)})
}

// AddSong POST /playlists/:id/songs.
func (h *PlaylistsHandler) AddSong(c *fiber.Ctx) error {
	principal, err := userPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.PlaylistSongRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.SongID == "" {
		return apperrors.NewValidationError("song_id required", nil)
	}
	playlist, err := h.service.AddSong(c.UserContext(), principal.ID, c.Params("id"), req.SongID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": playlistResponse(playlist)})
}

// RemoveSong DELETE /playlists/:id/songs/:songId.
func (h *PlaylistsHandler) RemoveSong(c *fiber.Ctx) error {
	principal, err := userPrincipal(c)
	if err != nil {
		return err
	}
	playlist, err := h.service.RemoveSong(c.UserContext(), principal.ID, c.Params("id"), c.Params("songId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": playlistResponse(playlist)})
}

// AddAlbum POST /playlists/:id/albums/:albumId. Links the album and every
// song on it.
func (h *PlaylistsHandler) AddAlbum(c *fiber.Ctx) error {
	principal, err := userPrincipal(c)
	if err != nil {
		return err
	}
	playlist, err := h.service.AddAlbum(c.UserContext(), principal.ID, c.Params("id"), c.Params("albumId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": playlistResponse(playlist)})
}

// RemoveAlbum DELETE /playlists/:id/albums/:albumId.
func (h *PlaylistsHandler) RemoveAlbum(c *fiber.Ctx) error {
	principal, err := userPrincipal(c)
	if err != nil {
		return err
	}
	playlist, err := h.service.RemoveAlbum(c.UserContext(), principal.ID, c.Params("id"), c.Params("albumId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": playlistResponse(playlist)})
}

// DeletePlaylist DELETE /playlists/:id.
func (h *PlaylistsHandler) DeletePlaylist(c *fiber.Ctx) error {
	principal, err := userPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), principal.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// userPrincipal returns the authenticated caller when it is an end-user.
func userPrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if principal.Type != domain.SubjectTypeUser {
		return nil, apperrors.NewForbidden("user account required")
	}
	return principal, nil
}

func playlistResponse(playlist *domain.Playlist) dto.PlaylistResponse {
	return dto.PlaylistResponse{
		ID:        playlist.ID,
		Name:      playlist.Name,
		UserID:    playlist.UserID,
		IsPublic:  playlist.IsPublic,
		Songs:     songResponses(playlist.Songs),
		CreatedAt: playlist.CreatedAt,
		UpdatedAt: playlist.UpdatedAt,
	}
}

func playlistResponses(playlists []domain.Playlist) []dto.PlaylistResponse {
	items := make([]dto.PlaylistResponse, 0, len(playlists))
	for i := range playlists {
		items = append(items, playlistResponse(&playlists[i]))
	}
	return items
}
