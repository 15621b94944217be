package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/music-catalog/internal/api/http/handlers"
	"github.com/spec-kit/music-catalog/internal/auth"
	"github.com/spec-kit/music-catalog/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Users     *handlers.UsersHandler
	Artists   *handlers.ArtistsHandler
	Songs     *handlers.SongsHandler
	Albums    *handlers.AlbumsHandler
	Playlists *handlers.PlaylistsHandler
	Library   *handlers.LibraryHandler
	Guard     *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Each route declares its access policy
// at registration time; the guard chain enforces it before the handler runs.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	public := auth.Public()
	authed := auth.Authenticated()
	artistOnly := auth.RequireRole(string(domain.SubjectTypeArtist))

	route := func(method func(path string, h ...fiber.Handler) fiber.Router, path string, policy auth.RoutePolicy, handler fiber.Handler) {
		method(path, append(cfg.Guard.Guard(policy), handler)...)
	}

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	route(app.Post, "/auth/login", public, cfg.Auth.Login)
	route(app.Post, "/auth/refresh", public, cfg.Auth.Refresh)
	// Revocation by token possession; an expired access token must not
	// block a sign-out.
	route(app.Post, "/auth/logout", public, cfg.Auth.Logout)
	route(app.Post, "/auth/logout/all", authed, cfg.Auth.LogoutAllDevices)

	route(app.Post, "/users", public, cfg.Users.Register)
	route(app.Get, "/users/me", authed, cfg.Users.Me)
	route(app.Patch, "/users/me", authed, cfg.Users.UpdateMe)
	route(app.Delete, "/users/me", authed, cfg.Users.DeleteMe)
	route(app.Get, "/users", authed, cfg.Users.ListUsers)
	route(app.Get, "/users/:id", authed, cfg.Users.GetUser)

	route(app.Post, "/artists", public, cfg.Artists.Register)
	route(app.Patch, "/artists/me", artistOnly, cfg.Artists.UpdateMe)
	route(app.Delete, "/artists/me", artistOnly, cfg.Artists.DeleteMe)
	route(app.Get, "/artists", public, cfg.Artists.ListArtists)
	route(app.Get, "/artists/by-name/:name", public, cfg.Artists.GetArtistByName)
	route(app.Get, "/artists/:id/songs", public, cfg.Songs.ListByArtist)
	route(app.Get, "/artists/:id/albums", public, cfg.Albums.ListByArtist)
	route(app.Get, "/artists/:id", public, cfg.Artists.GetArtist)

	route(app.Post, "/songs", artistOnly, cfg.Songs.CreateSong)
	route(app.Get, "/songs", public, cfg.Songs.ListSongs)
	route(app.Get, "/songs/singles", public, cfg.Songs.ListSingles)
	route(app.Get, "/songs/:id", public, cfg.Songs.GetSong)
	route(app.Patch, "/songs/:id", artistOnly, cfg.Songs.UpdateSong)
	route(app.Delete, "/songs/:id", artistOnly, cfg.Songs.DeleteSong)

	route(app.Post, "/albums", artistOnly, cfg.Albums.CreateAlbum)
	route(app.Get, "/albums", public, cfg.Albums.ListAlbums)
	route(app.Get, "/albums/:id/songs", public, cfg.Songs.ListByAlbum)
	route(app.Get, "/albums/:id", public, cfg.Albums.GetAlbum)
	route(app.Patch, "/albums/:id", artistOnly, cfg.Albums.UpdateAlbum)
	route(app.Delete, "/albums/:id", artistOnly, cfg.Albums.DeleteAlbum)

	route(app.Post, "/playlists", authed, cfg.Playlists.CreatePlaylist)
	route(app.Get, "/playlists", public, cfg.Playlists.ListPublic)
	route(app.Get, "/playlists/mine", authed, cfg.Playlists.ListMine)
	route(app.Get, "/playlists/:id", authed, cfg.Playlists.GetPlaylist)
	route(app.Post, "/playlists/:id/songs", authed, cfg.Playlists.AddSong)
	route(app.Delete, "/playlists/:id/songs/:songId", authed, cfg.Playlists.RemoveSong)
	route(app.Post, "/playlists/:id/albums/:albumId", authed, cfg.Playlists.AddAlbum)
	route(app.Delete, "/playlists/:id/albums/:albumId", authed, cfg.Playlists.RemoveAlbum)
	route(app.Delete, "/playlists/:id", authed, cfg.Playlists.DeletePlaylist)

	route(app.Get, "/library", authed, cfg.Library.GetLibrary)
	route(app.Post, "/library/items", authed, cfg.Library.AddItem)
	route(app.Delete, "/library/items", authed, cfg.Library.RemoveItem)
}
