package category

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for categories.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	List(ctx context.Context, page, limit int) ([]*Category, int64, error)
	Save(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}
