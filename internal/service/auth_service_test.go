package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/music-catalog/internal/auth"
	"github.com/spec-kit/music-catalog/internal/domain"
	"github.com/spec-kit/music-catalog/internal/events"
	"github.com/spec-kit/music-catalog/internal/repository"
	apperrors "github.com/spec-kit/music-catalog/pkg/util/errorutil"
)

type memoryUserRepo struct {
	users map[string]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[string]*domain.User{}}
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memoryUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *user
	return &found, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepo) List(_ context.Context, _ repository.AccountFilter) ([]domain.User, int64, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, int64(len(out)), nil
}

type memoryArtistRepo struct {
	artists map[string]*domain.Artist
}

func newMemoryArtistRepo() *memoryArtistRepo {
	return &memoryArtistRepo{artists: map[string]*domain.Artist{}}
}

func (r *memoryArtistRepo) Create(_ context.Context, artist *domain.Artist) error {
	artist.ID = uuid.NewString()
	artist.CreatedAt = time.Now()
	artist.UpdatedAt = artist.CreatedAt
	stored := *artist
	r.artists[artist.ID] = &stored
	return nil
}

func (r *memoryArtistRepo) Update(_ context.Context, artist *domain.Artist) error {
	if _, ok := r.artists[artist.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *artist
	r.artists[artist.ID] = &stored
	return nil
}

func (r *memoryArtistRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.artists[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.artists, id)
	return nil
}

func (r *memoryArtistRepo) GetByID(_ context.Context, id string) (*domain.Artist, error) {
	artist, ok := r.artists[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *artist
	return &found, nil
}

func (r *memoryArtistRepo) GetByEmail(_ context.Context, email string) (*domain.Artist, error) {
	for _, artist := range r.artists {
		if artist.Email == email {
			found := *artist
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryArtistRepo) GetByName(_ context.Context, name string) (*domain.Artist, error) {
	for _, artist := range r.artists {
		if artist.Name == name {
			found := *artist
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryArtistRepo) List(_ context.Context, _ repository.AccountFilter) ([]domain.Artist, int64, error) {
	out := make([]domain.Artist, 0, len(r.artists))
	for _, artist := range r.artists {
		out = append(out, *artist)
	}
	return out, int64(len(out)), nil
}

type authFixture struct {
	users   *memoryUserRepo
	artists *memoryArtistRepo
	tokens  *memoryTokenRepo
	codec   *auth.TokenCodec
	svc     *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := newMemoryUserRepo()
	artists := newMemoryArtistRepo()
	tokens := newMemoryTokenRepo()
	codec := auth.NewTokenCodec("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	dispatcher := events.NewInMemoryDispatcher()
	tokenSvc := NewTokenService(codec, tokens, dispatcher, 7*24*time.Hour)
	directory := NewPrincipalDirectory(users, artists)
	return &authFixture{
		users:   users,
		artists: artists,
		tokens:  tokens,
		codec:   codec,
		svc:     NewAuthService(directory, tokenSvc, dispatcher),
	}
}

func (f *authFixture) addUser(t *testing.T, name, email, password string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	user := &domain.User{Name: name, Email: email, PasswordHash: hash, Role: "USER"}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *authFixture) addArtist(t *testing.T, name, email, password string) *domain.Artist {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	artist := &domain.Artist{Name: name, Email: email, PasswordHash: hash, Role: "ARTIST"}
	require.NoError(t, f.artists.Create(context.Background(), artist))
	return artist
}

func TestSignInUserSuccess(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "Jo", "jo@example.com", "pass123")

	result, err := f.svc.SignIn(context.Background(), "jo@example.com", "pass123")
	require.NoError(t, err)
	require.Equal(t, user.ID, result.Principal.ID)
	require.Equal(t, domain.SubjectTypeUser, result.Principal.Type)
	require.Equal(t, "Jo", result.Principal.Name)

	claims, err := f.codec.VerifyAccess(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Contains(t, claims.Roles, "USER")

	_, err = f.codec.VerifyRefresh(result.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, 1, f.tokens.count())
}

func TestSignInArtistSuccess(t *testing.T) {
	f := newAuthFixture(t)
	artist := f.addArtist(t, "The Band", "band@example.com", "pass123")

	result, err := f.svc.SignIn(context.Background(), "band@example.com", "pass123")
	require.NoError(t, err)
	require.Equal(t, artist.ID, result.Principal.ID)
	require.Equal(t, domain.SubjectTypeArtist, result.Principal.Type)

	claims, err := f.codec.VerifyAccess(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, domain.SubjectTypeArtist, claims.SubjectType)
	require.Contains(t, claims.Roles, "ARTIST")
}

func TestSignInFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "Jo", "jo@example.com", "pass123")

	_, unknownErr := f.svc.SignIn(context.Background(), "nobody@example.com", "pass123")
	_, wrongPassErr := f.svc.SignIn(context.Background(), "jo@example.com", "wrong")

	require.Error(t, unknownErr)
	require.Error(t, wrongPassErr)

	unknown := apperrors.ToDomainError(unknownErr)
	wrongPass := apperrors.ToDomainError(wrongPassErr)
	require.Equal(t, unknown.Message, wrongPass.Message)
	require.Equal(t, unknown.HTTPStatus, wrongPass.HTTPStatus)
	require.Equal(t, 401, unknown.HTTPStatus)
}

func TestSignInUserWinsEmailCollision(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "Jo", "shared@example.com", "user-pass")
	f.addArtist(t, "Jo Band", "shared@example.com", "artist-pass")

	result, err := f.svc.SignIn(context.Background(), "shared@example.com", "user-pass")
	require.NoError(t, err)
	require.Equal(t, user.ID, result.Principal.ID)
	require.Equal(t, domain.SubjectTypeUser, result.Principal.Type)

	// The artist's password no longer signs in under the shared email.
	_, err = f.svc.SignIn(context.Background(), "shared@example.com", "artist-pass")
	require.Error(t, err)
}

func TestRefreshFailureCollapsesToGenericUnauthorized(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "Jo", "jo@example.com", "pass123")
	ctx := context.Background()

	result, err := f.svc.SignIn(ctx, "jo@example.com", "pass123")
	require.NoError(t, err)

	// Garbage, revoked, and already-rotated tokens all fail identically.
	_, garbageErr := f.svc.Refresh(ctx, "not-a-jwt")
	require.NoError(t, f.svc.Logout(ctx, result.RefreshToken))
	_, revokedErr := f.svc.Refresh(ctx, result.RefreshToken)

	garbage := apperrors.ToDomainError(garbageErr)
	revoked := apperrors.ToDomainError(revokedErr)
	require.Equal(t, 401, garbage.HTTPStatus)
	require.Equal(t, garbage.Message, revoked.Message)
}

func TestRefreshReturnsRotatedPair(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "Jo", "jo@example.com", "pass123")
	ctx := context.Background()

	result, err := f.svc.SignIn(ctx, "jo@example.com", "pass123")
	require.NoError(t, err)

	pair, err := f.svc.Refresh(ctx, result.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, result.RefreshToken, pair.RefreshToken)

	claims, err := f.codec.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, result.Principal.ID, claims.Subject)
}

func TestLogoutAllDevices(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "Jo", "jo@example.com", "pass123")
	ctx := context.Background()

	first, err := f.svc.SignIn(ctx, "jo@example.com", "pass123")
	require.NoError(t, err)
	second, err := f.svc.SignIn(ctx, "jo@example.com", "pass123")
	require.NoError(t, err)
	require.Equal(t, 2, f.tokens.count())

	require.NoError(t, f.svc.LogoutAllDevices(ctx, user.ID, domain.SubjectTypeUser))
	require.Equal(t, 0, f.tokens.count())

	_, err = f.svc.Refresh(ctx, first.RefreshToken)
	require.Error(t, err)
	_, err = f.svc.Refresh(ctx, second.RefreshToken)
	require.Error(t, err)
}
