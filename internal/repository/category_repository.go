package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain"
	categoryDomain "github.com/Meridian-Car-Rental/service-backoffice/internal/domain/category"
)

// CategoryModel is the GORM model for the categories table.
type CategoryModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"uniqueIndex;not null;size:100"`
	Description string    `gorm:"size:500"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CategoryModel) TableName() string {
	return "categories"
}

// GormCategoryRepository is the GORM-based implementation of category.Repository.
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository.
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID retrieves a category by its unique identifier.
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*categoryDomain.Category, error) {
	var model CategoryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Category", id.String())
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}
	return toDomainCategory(&model), nil
}

// List retrieves categories with pagination.
func (r *GormCategoryRepository) List(ctx context.Context, page, limit int) ([]*categoryDomain.Category, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&CategoryModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	var models []CategoryModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]*categoryDomain.Category, len(models))
	for i, m := range models {
		categories[i] = toDomainCategory(&m)
	}
	return categories, total, nil
}

// Save persists a new category.
func (r *GormCategoryRepository) Save(ctx context.Context, cat *categoryDomain.Category) error {
	if err := r.db.WithContext(ctx).Create(toCategoryModel(cat)).Error; err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

// Update persists changes to an existing category.
func (r *GormCategoryRepository) Update(ctx context.Context, cat *categoryDomain.Category) error {
	result := r.db.WithContext(ctx).
		Model(&CategoryModel{}).
		Where("id = ?", cat.ID()).
		Updates(map[string]interface{}{
			"name":        cat.Name(),
			"description": cat.Description(),
			"updated_at":  cat.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Category", cat.ID().String())
	}
	return nil
}

// Delete removes a category.
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Category", id.String())
	}
	return nil
}

func toCategoryModel(cat *categoryDomain.Category) *CategoryModel {
	return &CategoryModel{
		ID:          cat.ID(),
		Name:        cat.Name(),
		Description: cat.Description(),
		CreatedAt:   cat.CreatedAt(),
		UpdatedAt:   cat.UpdatedAt(),
	}
}

func toDomainCategory(m *CategoryModel) *categoryDomain.Category {
	return categoryDomain.Reconstruct(m.ID, m.Name, m.Description, m.CreatedAt, m.UpdatedAt)
}
