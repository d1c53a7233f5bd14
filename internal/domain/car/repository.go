package car

import (
	"context"

	"github.com/google/uuid"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain/schedule"
)

// Repository defines the persistence contract for car aggregates.
//
// BlockDates and UnblockDates mutate the schedule of exactly one car. When
// invoked through a transactional unit of work they participate in the
// caller's transaction, so a booking status write and the matching schedule
// mutation are applied all-or-nothing.
type Repository interface {
	// FindByID retrieves a car by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Car, error)

	// List retrieves cars with pagination, optionally filtered by category.
	List(ctx context.Context, categoryID *uuid.UUID, page, limit int) ([]*Car, int64, error)

	// FindByInvestorID retrieves all cars owned by the given investor.
	FindByInvestorID(ctx context.Context, investorID uuid.UUID) ([]*Car, error)

	// Save persists a new car.
	Save(ctx context.Context, car *Car) error

	// Update persists changes to a car's back-office fields. The schedule
	// column is left untouched.
	Update(ctx context.Context, car *Car) error

	// Delete removes a car.
	Delete(ctx context.Context, id uuid.UUID) error

	// BlockDates appends one blocking entry per date to the car's schedule,
	// tagged with the booking number. No-op on an empty date set.
	BlockDates(ctx context.Context, carID uuid.UUID, bookingRef string, dates []schedule.Date) error

	// UnblockDates removes the blocking entries the given booking introduced
	// for the given dates. No-op on an empty date set.
	UnblockDates(ctx context.Context, carID uuid.UUID, bookingRef string, dates []schedule.Date) error
}
