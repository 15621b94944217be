package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/music-catalog/internal/repository"
)

// Query parsing shared by the listing endpoints. Pagination uses the
// skip/take window that the page envelopes echo back.

func parseAccountQuery(c *fiber.Ctx) repository.AccountFilter {
	filter := repository.AccountFilter{}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.Search = &search
	}
	filter.CreatedFrom = parseTime(c.Query("created_from"))
	filter.CreatedTo = parseTime(c.Query("created_to"))
	filter.SortBy = c.Query("sort_by")
	filter.SortDesc = c.Query("order") == "desc"
	filter.Offset = parseInt(c.Query("skip"), 0)
	filter.Limit = parseInt(c.Query("take"), 10)
	return filter
}

func parseSongQuery(c *fiber.Ctx) repository.SongFilter {
	filter := repository.SongFilter{}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.Search = &search
	}
	if artistID := c.Query("artist_id"); artistID != "" {
		filter.ArtistID = &artistID
	}
	if albumID := c.Query("album_id"); albumID != "" {
		filter.AlbumID = &albumID
	}
	filter.CreatedFrom = parseTime(c.Query("created_from"))
	filter.CreatedTo = parseTime(c.Query("created_to"))
	filter.SortBy = c.Query("sort_by")
	filter.SortDesc = c.Query("order") == "desc"
	filter.Offset = parseInt(c.Query("skip"), 0)
	filter.Limit = parseInt(c.Query("take"), 10)
	return filter
}

func parseAlbumQuery(c *fiber.Ctx) repository.AlbumFilter {
	filter := repository.AlbumFilter{}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.Search = &search
	}
	if artistID := c.Query("artist_id"); artistID != "" {
		filter.ArtistID = &artistID
	}
	filter.CreatedFrom = parseTime(c.Query("created_from"))
	filter.CreatedTo = parseTime(c.Query("created_to"))
	filter.SortBy = c.Query("sort_by")
	filter.SortDesc = c.Query("order") == "desc"
	filter.Offset = parseInt(c.Query("skip"), 0)
	filter.Limit = parseInt(c.Query("take"), 10)
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
