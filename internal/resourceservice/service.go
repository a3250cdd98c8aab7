// Package resourceservice holds the resource use cases that sit between the
// HTTP and MCP layers and the repository.
package resourceservice

import (
	"context"

	"github.com/starford/resource-api/internal/apperr"
	"github.com/starford/resource-api/internal/models"
	"github.com/starford/resource-api/internal/store"
)

// CreateInput carries the fields of a new resource.
type CreateInput struct {
	Name string
	Type models.ResourceType
	Data map[string]any
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name *string
	Type *models.ResourceType
	Data map[string]any
}

// ListResult is one page of resources plus the total matching the filter.
type ListResult struct {
	Resources []models.Resource
	Count     int
}

// Service coordinates resource operations over a repository.
type Service struct {
	repo store.Repository
}

// NewService creates a new resource service.
func NewService(repo store.Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new resource and returns it with server-assigned fields.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Resource, error) {
	return s.repo.Create(ctx, store.NewResource{
		Name: in.Name,
		Type: in.Type,
		Data: in.Data,
	})
}

// GetAll returns the requested page and the total count for the same filter.
func (s *Service) GetAll(ctx context.Context, f store.Filter) (ListResult, error) {
	resources, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return ListResult{}, err
	}
	count, err := s.repo.Count(ctx, f)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Resources: resources, Count: count}, nil
}

// GetOne returns the live resource with id or Resource.NotFound.
func (s *Service) GetOne(ctx context.Context, id string) (*models.Resource, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, notFound(id)
	}
	return r, nil
}

// Update applies a partial update to an existing resource.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.Resource, error) {
	if _, err := s.GetOne(ctx, id); err != nil {
		return nil, err
	}
	r, err := s.repo.Update(ctx, id, store.Patch{
		Name: in.Name,
		Type: in.Type,
		Data: in.Data,
	})
	if err != nil {
		return nil, err
	}
	// Deleted between the lookup and the write.
	if r == nil {
		return nil, notFound(id)
	}
	return r, nil
}

// Delete soft-deletes an existing resource.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetOne(ctx, id); err != nil {
		return err
	}
	ok, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(id)
	}
	return nil
}

func notFound(id string) *apperr.Error {
	return apperr.ResourceNotFound(map[string]any{"id": id})
}
