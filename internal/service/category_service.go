package service

import (
	"context"
	"fmt"
	"time"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"

	"github.com/google/uuid"
)

// UpdateCategoryInput is a partial patch; nil fields are left unchanged.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
}

// CategoryService defines the interface for category business logic
type CategoryService interface {
	Create(ctx context.Context, name, description string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	now          func() time.Time
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		now:          time.Now,
	}
}

// Create inserts a new category. Names are unique; a duplicate fails with
// repository.ErrCategoryAlreadyExists.
func (s *categoryService) Create(ctx context.Context, name, description string) (*domain.Category, error) {
	now := s.now()
	category := &domain.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// List retrieves all categories
func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetByID retrieves a category by id
func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

// GetByName retrieves a category by its exact name
func (s *categoryService) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	return s.categoryRepo.FindByName(ctx, name)
}

// Update applies a partial patch to a category
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	category.UpdatedAt = s.now()

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// Delete removes a category. Deletion fails with
// repository.ErrCategoryInUse while products still reference it.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}
