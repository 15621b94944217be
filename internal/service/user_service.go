package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/music-catalog/internal/auth"
	"github.com/spec-kit/music-catalog/internal/domain"
	"github.com/spec-kit/music-catalog/internal/repository"
	apperrors "github.com/spec-kit/music-catalog/pkg/util/errorutil"
)

// UserPage is the paginated listing envelope.
type UserPage struct {
	Users    []domain.User
	Skip     int
	Take     int
	Total    int64
	Next     bool
	Previous bool
}

// UserService manages end-user accounts.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// Register creates a new end-user account.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         string(domain.SubjectTypeUser),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get fetches one user by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// List returns a filtered page of users.
func (s *UserService) List(ctx context.Context, filter repository.AccountFilter) (*UserPage, error) {
	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	skip := filter.Offset
	if skip < 0 {
		skip = 0
	}
	take := filter.Limit
	if take <= 0 {
		take = 10
	}
	return &UserPage{
		Users:    users,
		Skip:     skip,
		Take:     take,
		Total:    total,
		Next:     int64(skip+take) < total,
		Previous: skip > 0,
	}, nil
}

// UpdateName renames the account.
func (s *UserService) UpdateName(ctx context.Context, id, name string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Name = name
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
