package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/music-catalog/internal/api/http"
	"github.com/spec-kit/music-catalog/internal/api/http/handlers"
	"github.com/spec-kit/music-catalog/internal/auth"
	"github.com/spec-kit/music-catalog/internal/config"
	"github.com/spec-kit/music-catalog/internal/events"
	"github.com/spec-kit/music-catalog/internal/observability"
	"github.com/spec-kit/music-catalog/internal/persistence"
	"github.com/spec-kit/music-catalog/internal/repository"
	"github.com/spec-kit/music-catalog/internal/service"
	"github.com/spec-kit/music-catalog/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	observability.RegisterActivityLog(dispatcher, logger)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	artistRepo := repository.NewArtistRepository(pool)
	tokenRepo := repository.NewRefreshTokenRepository(pool)
	songRepo := repository.NewSongRepository(pool)
	albumRepo := repository.NewAlbumRepository(pool)
	playlistRepo := repository.NewPlaylistRepository(pool)
	libraryRepo := repository.NewLibraryRepository(pool)

	codec := auth.NewTokenCodec(
		cfg.Auth.AccessTokenSecret,
		cfg.Auth.RefreshTokenSecret,
		cfg.Auth.AccessTokenTTL(),
		cfg.Auth.RefreshTokenTTL(),
	)
	directory := service.NewPrincipalDirectory(userRepo, artistRepo)
	tokenService := service.NewTokenService(codec, tokenRepo, dispatcher, cfg.Auth.TokenRetention())
	authService := service.NewAuthService(directory, tokenService, dispatcher)

	var cache *service.CatalogCache
	if cfg.Cache.Enabled {
		cache = service.NewCatalogCache(redis.Client, cfg.Cache.CacheTTL(), logger)
	} else {
		cache = service.NewCatalogCache(nil, 0, logger)
	}
	cache.RegisterInvalidation(dispatcher)

	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	artistService := service.NewArtistService(artistRepo, cfg.Auth.BcryptCost)
	songService := service.NewSongService(songRepo, cache, dispatcher)
	albumService := service.NewAlbumService(albumRepo, cache, dispatcher)
	playlistService := service.NewPlaylistService(playlistRepo, songRepo, albumRepo)
	libraryService := service.NewLibraryService(libraryRepo)

	sweeper := worker.NewTokenSweeper(tokenService, metrics, logger, cfg.Auth.TokenSweepSchedule)
	if err := sweeper.Start(ctx); err != nil {
		logger.Fatal("failed to start token sweeper", zap.Error(err))
	}
	defer sweeper.Stop()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	guard := auth.NewMiddleware(codec)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:      handlers.NewAuthHandler(authService),
		Users:     handlers.NewUsersHandler(userService),
		Artists:   handlers.NewArtistsHandler(artistService),
		Songs:     handlers.NewSongsHandler(songService),
		Albums:    handlers.NewAlbumsHandler(albumService),
		Playlists: handlers.NewPlaylistsHandler(playlistService),
		Library:   handlers.NewLibraryHandler(libraryService),
		Guard:     guard,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
