package application

import (
	"context"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain/booking"
	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain/car"
)

// Stores bundles the repositories participating in one atomic unit.
type Stores struct {
	Bookings booking.Repository
	Cars     car.Repository
}

// UnitOfWork runs a function against transaction-bound stores. Every write
// performed through the stores inside fn is applied all-or-nothing: if fn
// returns an error, none of the writes survive. This is what keeps a
// booking's status and its car's schedule consistent under failure.
type UnitOfWork interface {
	RunInTransaction(ctx context.Context, fn func(s Stores) error) error
}
