package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/application"
)

// GormUnitOfWork implements application.UnitOfWork on a database transaction.
// Repositories handed to fn are bound to the transaction, so every write
// inside fn commits or rolls back as one.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork.
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// RunInTransaction runs fn against transaction-bound stores.
func (u *GormUnitOfWork) RunInTransaction(ctx context.Context, fn func(s application.Stores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(application.Stores{
			Bookings: NewGormBookingRepository(tx),
			Cars:     NewGormCarRepository(tx),
		})
	})
}
