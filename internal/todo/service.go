package todo

import (
	"context"
)

// RepositoryPort defines data access methods for to-dos.
type RepositoryPort interface {
	ListByOwner(ctx context.Context, userID int64) ([]Todo, error)
	Create(ctx context.Context, userID int64, title, category string) (*Todo, error)
	Update(ctx context.Context, userID, todoID int64, patch Patch) error
	Delete(ctx context.Context, userID, todoID int64) error
}

// Service handles to-do business logic scoped to the authenticated user.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns the caller's to-dos.
func (s *Service) List(ctx context.Context, userID int64) ([]Todo, error) {
	return s.repo.ListByOwner(ctx, userID)
}

// Create adds a to-do owned by the caller.
func (s *Service) Create(ctx context.Context, userID int64, title, category string) (*Todo, error) {
	return s.repo.Create(ctx, userID, title, category)
}

// Update patches one of the caller's to-dos.
func (s *Service) Update(ctx context.Context, userID, todoID int64, patch Patch) error {
	return s.repo.Update(ctx, userID, todoID, patch)
}

// Delete removes one of the caller's to-dos.
func (s *Service) Delete(ctx context.Context, userID, todoID int64) error {
	return s.repo.Delete(ctx, userID, todoID)
}
