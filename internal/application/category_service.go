package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain"
	categoryDomain "github.com/Meridian-Car-Rental/service-backoffice/internal/domain/category"
)

// CategoryRequest holds the data for creating or updating a category.
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CategoryDTO is the response representation of a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryService handles category CRUD.
type CategoryService struct {
	categories categoryDomain.Repository
	logger     *zap.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categories categoryDomain.Repository, logger *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, logger: logger}
}

// CreateCategory creates a new category.
func (s *CategoryService) CreateCategory(ctx context.Context, req CategoryRequest) (*CategoryDTO, error) {
	cat, err := categoryDomain.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Save(ctx, cat); err != nil {
		return nil, fmt.Errorf("failed to save category: %w", err)
	}
	dto := toCategoryDTO(cat)
	return &dto, nil
}

// GetCategory retrieves a single category by ID.
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toCategoryDTO(cat)
	return &dto, nil
}

// ListCategories retrieves paginated categories.
func (s *CategoryService) ListCategories(ctx context.Context, page, limit int) (*domain.PaginatedResult[CategoryDTO], error) {
	categories, total, err := s.categories.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]CategoryDTO, len(categories))
	for i, cat := range categories {
		dtos[i] = toCategoryDTO(cat)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// UpdateCategory renames a category.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryDTO, error) {
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := cat.Rename(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, cat); err != nil {
		return nil, err
	}
	dto := toCategoryDTO(cat)
	return &dto, nil
}

// DeleteCategory removes a category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return err
	}
	return s.categories.Delete(ctx, id)
}

func toCategoryDTO(cat *categoryDomain.Category) CategoryDTO {
	return CategoryDTO{
		ID:          cat.ID(),
		Name:        cat.Name(),
		Description: cat.Description(),
		CreatedAt:   cat.CreatedAt(),
		UpdatedAt:   cat.UpdatedAt(),
	}
}
