package service

import (
	"context"

	"github.com/spec-kit/music-catalog/internal/domain"
	"github.com/spec-kit/music-catalog/internal/repository"
)

// LibraryService manages a user's saved catalog membership.
type LibraryService struct {
	libraries repository.LibraryRepository
}

// NewLibraryService builds the service.
func NewLibraryService(libraries repository.LibraryRepository) *LibraryService {
	return &LibraryService{libraries: libraries}
}

// Get loads the user's library, creating it lazily.
func (s *LibraryService) Get(ctx context.Context, userID string) (*domain.Library, error) {
	return s.libraries.GetByUser(ctx, userID)
}

// Add saves a catalog resource into the user's library. Re-adding is a no-op.
func (s *LibraryService) Add(ctx context.Context, userID string, resource repository.LibraryResource, resourceID string) error {
	return s.libraries.Add(ctx, userID, resource, resourceID)
}

// Remove drops a catalog resource from the user's library.
func (s *LibraryService) Remove(ctx context.Context, userID string, resource repository.LibraryResource, resourceID string) error {
	return s.libraries.Remove(ctx, userID, resource, resourceID)
}
