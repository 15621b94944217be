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

// SongsHandler manages catalog track endpoints. Reads are public;
// mutations require the owning artist.
type SongsHandler struct {
	service *service.SongService
}

// NewSongsHandler constructs handler.
func NewSongsHandler(songService *service.SongService) *SongsHandler {
	return &SongsHandler{service: songService}
}

// CreateSong POST /songs.
func (h *SongsHandler) CreateSong(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("artist required")
	}
	var req dto.CreateSongRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" {
		return apperrors.NewValidationError("title required", nil)
	}
	if req.Duration <= 0 {
		return apperrors.NewValidationError("duration must be positive", nil)
	}
	song, err := h.service.Create(c.UserContext(), principal.ID, service.SongCreateInput{
		Title:      req.Title,
		AlbumID:    req.AlbumID,
		Duration:   req.Duration,
		ReleasedAt: req.ReleasedAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": songResponse(song)})
}

// ListSongs GET /songs.
func (h *SongsHandler) ListSongs(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), parseSongQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": songResponses(page.Songs), "meta": pageMeta(page.Skip, page.Take, page.Total, page.Next, page.Previous)})
}

// ListSingles GET /songs/singles.
func (h *SongsHandler) ListSingles(c *fiber.Ctx) error {
	page, err := h.service.ListSingles(c.UserContext(), parseSongQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": songResponses(page.Songs), "meta": pageMeta(page.Skip, page.Take, page.Total, page.Next, page.Previous)})
}

// GetSong GET /songs/:id.
func (h *SongsHandler) GetSong(c *fiber.Ctx) error {
	song, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": songResponse(song)})
}

// ListByArtist GET /artists/:id/songs.
func (h *SongsHandler) ListByArtist(c *fiber.Ctx) error {
	songs, err := h.service.ListByArtist(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": songResponses(songs)})
}

// ListByAlbum GET /albums/:id/songs.
func (h *SongsHandler) ListByAlbum(c *fiber.Ctx) error {
	songs, err := h.service.ListByAlbum(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": songResponses(songs)})
}

// UpdateSong PATCH /songs/:id.
func (h *SongsHandler) UpdateSong(c *fiber.Ctx) error {
	song, err := h.ownedSong(c)
	if err != nil {
		return err
	}
	var req dto.UpdateSongRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Duration != nil && *req.Duration <= 0 {
		return apperrors.NewValidationError("duration must be positive", nil)
	}
	updated, err := h.service.Update(c.UserContext(), song.ID, service.SongUpdateInput{
		Title:      req.Title,
		AlbumID:    req.AlbumID,
		ClearAlbum: req.ClearAlbum,
		Duration:   req.Duration,
		ReleasedAt: req.ReleasedAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": songResponse(updated)})
}

// DeleteSong DELETE /songs/:id.
func (h *SongsHandler) DeleteSong(c *fiber.Ctx) error {
	song, err := h.ownedSong(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), song.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SongsHandler) ownedSong(c *fiber.Ctx) (*domain.Song, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("artist required")
	}
	song, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	if song.ArtistID != principal.ID {
		return nil, apperrors.NewForbidden("not the song owner")
	}
	return song, nil
}

func songResponse(song *domain.Song) dto.SongResponse {
	return dto.SongResponse{
		ID:         song.ID,
		Title:      song.Title,
		ArtistID:   song.ArtistID,
		AlbumID:    song.AlbumID,
		Duration:   song.Duration,
		Single:     song.IsSingle(),
		ReleasedAt: song.ReleasedAt,
		CreatedAt:  song.CreatedAt,
		UpdatedAt:  song.UpdatedAt,
	}
}

func songResponses(songs []domain.Song) []dto.SongResponse {
	items := make([]dto.SongResponse, 0, len(songs))
	for i := range songs {
		items = append(items, songResponse(&songs[i]))
	}
	return items
}
