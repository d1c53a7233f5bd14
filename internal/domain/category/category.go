package category

import (
	"time"

	"github.com/google/uuid"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain"
)

// Category groups cars for the back-office listing (economy, SUV, ...).
type Category struct {
	id          uuid.UUID
	name        string
	description string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewCategory creates a new Category.
func NewCategory(name, description string) (*Category, error) {
	if name == "" {
		return nil, domain.NewValidationError("category name is required")
	}
	now := time.Now().UTC()
	return &Category{
		id:          uuid.New(),
		name:        name,
		description: description,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a Category from persistence data.
func Reconstruct(id uuid.UUID, name, description string, createdAt, updatedAt time.Time) *Category {
	return &Category{
		id:          id,
		name:        name,
		description: description,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (c *Category) ID() uuid.UUID        { return c.id }
func (c *Category) Name() string         { return c.name }
func (c *Category) Description() string  { return c.description }
func (c *Category) CreatedAt() time.Time { return c.createdAt }
func (c *Category) UpdatedAt() time.Time { return c.updatedAt }

// Rename updates the category's name and description.
func (c *Category) Rename(name, description string) error {
	if name == "" {
		return domain.NewValidationError("category name is required")
	}
	c.name = name
	c.description = description
	c.updatedAt = time.Now().UTC()
	return nil
}
