package investor

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for investors.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Investor, error)
	List(ctx context.Context, page, limit int) ([]*Investor, int64, error)
	Save(ctx context.Context, investor *Investor) error
	Update(ctx context.Context, investor *Investor) error
	Delete(ctx context.Context, id uuid.UUID) error
}
