package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/music-catalog/internal/api/http/handlers"
	"github.com/spec-kit/music-catalog/internal/auth"
	"github.com/spec-kit/music-catalog/internal/domain"
	"github.com/spec-kit/music-catalog/internal/events"
	"github.com/spec-kit/music-catalog/internal/observability"
	"github.com/spec-kit/music-catalog/internal/repository"
	"github.com/spec-kit/music-catalog/internal/service"
)

type stubUserRepo struct {
	byEmail map[string]*domain.User
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.byEmail[user.Email] = &stored
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.byEmail[user.Email] = user
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, _ string) error { return nil }

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range r.byEmail {
		if user.ID == id {
			found := *user
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *user
	return &found, nil
}

func (r *stubUserRepo) List(_ context.Context, _ repository.AccountFilter) ([]domain.User, int64, error) {
	return nil, 0, nil
}

type stubArtistRepo struct{}

func (stubArtistRepo) Create(_ context.Context, _ *domain.Artist) error { return nil }
func (stubArtistRepo) Update(_ context.Context, _ *domain.Artist) error { return nil }
func (stubArtistRepo) Delete(_ context.Context, _ string) error         { return nil }
func (stubArtistRepo) GetByID(_ context.Context, _ string) (*domain.Artist, error) {
	return nil, pgx.ErrNoRows
}
func (stubArtistRepo) GetByEmail(_ context.Context, _ string) (*domain.Artist, error) {
	return nil, pgx.ErrNoRows
}
func (stubArtistRepo) GetByName(_ context.Context, _ string) (*domain.Artist, error) {
	return nil, pgx.ErrNoRows
}
func (stubArtistRepo) List(_ context.Context, _ repository.AccountFilter) ([]domain.Artist, int64, error) {
	return nil, 0, nil
}

type stubTokenRepo struct {
	records map[string]*domain.RefreshToken
}

func (r *stubTokenRepo) Create(_ context.Context, record *domain.RefreshToken) error {
	record.ID = uuid.NewString()
	record.CreatedAt = time.Now()
	stored := *record
	r.records[record.ID] = &stored
	return nil
}

func (r *stubTokenRepo) GetByToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	for _, rec := range r.records {
		if rec.Token == token {
			found := *rec
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubTokenRepo) DeleteByToken(_ context.Context, token string) (int64, error) {
	var deleted int64
	for id, rec := range r.records {
		if rec.Token == token {
			delete(r.records, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *stubTokenRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.records[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.records, id)
	return nil
}

func (r *stubTokenRepo) DeleteBySubject(_ context.Context, subjectID string, subjectType domain.SubjectType) (int64, error) {
	var deleted int64
	for id, rec := range r.records {
		if rec.SubjectID() == subjectID && rec.SubjectType() == subjectType {
			delete(r.records, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *stubTokenRepo) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, rec := range r.records {
		if rec.CreatedAt.Before(cutoff) {
			delete(r.records, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *stubTokenRepo) Replace(_ context.Context, oldID string, next *domain.RefreshToken) error {
	if _, ok := r.records[oldID]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.records, oldID)
	next.ID = uuid.NewString()
	next.CreatedAt = time.Now()
	stored := *next
	r.records[next.ID] = &stored
	return nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	users := &stubUserRepo{byEmail: map[string]*domain.User{}}
	tokens := &stubTokenRepo{records: map[string]*domain.RefreshToken{}}

	hash, err := auth.HashPassword("pass123", 4)
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &domain.User{
		Name: "Jo", Email: "jo@example.com", PasswordHash: hash, Role: "USER",
	}))

	codec := auth.NewTokenCodec("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	dispatcher := events.NewInMemoryDispatcher()
	directory := service.NewPrincipalDirectory(users, stubArtistRepo{})
	tokenService := service.NewTokenService(codec, tokens, dispatcher, 7*24*time.Hour)
	authService := service.NewAuthService(directory, tokenService, dispatcher)
	userService := service.NewUserService(users, 4)
	cache := service.NewCatalogCache(nil, 0, zap.NewNop())
	songService := service.NewSongService(nil, cache, dispatcher)

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:    handlers.NewHealthHandler("test", "dev", nil, nil),
		Auth:      handlers.NewAuthHandler(authService),
		Users:     handlers.NewUsersHandler(userService),
		Artists:   handlers.NewArtistsHandler(nil),
		Songs:     handlers.NewSongsHandler(songService),
		Albums:    handlers.NewAlbumsHandler(nil),
		Playlists: handlers.NewPlaylistsHandler(nil),
		Library:   handlers.NewLibraryHandler(nil),
		Guard:     auth.NewMiddleware(codec),
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any, headers map[string]string) (*nethttp.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(nethttp.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *nethttp.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) == 0 {
		return nil
	}
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func login(t *testing.T, app *fiber.App) (string, string) {
	t.Helper()
	resp, body := postJSON(t, app, "/auth/login", map[string]string{
		"email": "jo@example.com", "password": "pass123",
	}, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	return data["access_token"].(string), data["refresh_token"].(string)
}

func TestLoginReturnsTokenPairAndPrincipal(t *testing.T) {
	app := newTestApp(t)

	resp, body := postJSON(t, app, "/auth/login", map[string]string{
		"email": "jo@example.com", "password": "pass123",
	}, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	require.NotEmpty(t, data["access_token"])
	require.NotEmpty(t, data["refresh_token"])
	principal := data["principal"].(map[string]any)
	require.Equal(t, "Jo", principal["name"])
	require.Equal(t, "USER", principal["type"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)

	resp, body := postJSON(t, app, "/auth/login", map[string]string{
		"email": "jo@example.com", "password": "wrong",
	}, nil)
	require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	errBody := body["error"].(map[string]any)
	require.Equal(t, "UNAUTHORIZED", errBody["code"])
	require.Equal(t, "invalid email or password", errBody["message"])
}

func TestRefreshRotatesPairOverHTTP(t *testing.T) {
	app := newTestApp(t)
	_, refreshToken := login(t, app)

	resp, body := postJSON(t, app, "/auth/refresh", map[string]string{"refresh_token": refreshToken}, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	require.NotEqual(t, refreshToken, data["refresh_token"])

	// The consumed token no longer refreshes.
	resp, body = postJSON(t, app, "/auth/refresh", map[string]string{"refresh_token": refreshToken}, nil)
	require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	errBody := body["error"].(map[string]any)
	require.Equal(t, "invalid refresh token", errBody["message"])
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	app := newTestApp(t)
	_, refreshToken := login(t, app)

	resp, _ := postJSON(t, app, "/auth/logout", map[string]string{"refresh_token": refreshToken}, nil)
	require.Equal(t, nethttp.StatusNoContent, resp.StatusCode)

	resp, _ = postJSON(t, app, "/auth/refresh", map[string]string{"refresh_token": refreshToken}, nil)
	require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	// Revoking again is harmless.
	resp, _ = postJSON(t, app, "/auth/logout", map[string]string{"refresh_token": refreshToken}, nil)
	require.Equal(t, nethttp.StatusNoContent, resp.StatusCode)
}

func TestLogoutAllDevicesOverHTTP(t *testing.T) {
	app := newTestApp(t)
	accessToken, firstRefresh := login(t, app)
	_, secondRefresh := login(t, app)

	resp, _ := postJSON(t, app, "/auth/logout/all", map[string]string{}, map[string]string{
		fiber.HeaderAuthorization: "Bearer " + accessToken,
	})
	require.Equal(t, nethttp.StatusNoContent, resp.StatusCode)

	for _, token := range []string{firstRefresh, secondRefresh} {
		resp, _ = postJSON(t, app, "/auth/refresh", map[string]string{"refresh_token": token}, nil)
		require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/users/me", nil))
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	accessToken, _ := login(t, app)
	req := httptest.NewRequest(nethttp.MethodGet, "/users/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+accessToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	require.Equal(t, "jo@example.com", data["email"])
}

func TestArtistRouteRejectsUserRole(t *testing.T) {
	app := newTestApp(t)
	accessToken, _ := login(t, app)

	resp, body := postJSON(t, app, "/songs", map[string]any{"title": "New", "duration": 100}, map[string]string{
		fiber.HeaderAuthorization: "Bearer " + accessToken,
	})
	require.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
	errBody := body["error"].(map[string]any)
	require.Equal(t, "FORBIDDEN", errBody["code"])
}
