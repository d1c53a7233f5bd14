package application

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain"
	bookingDomain "github.com/Meridian-Car-Rental/service-backoffice/internal/domain/booking"
	carDomain "github.com/Meridian-Car-Rental/service-backoffice/internal/domain/car"
	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain/schedule"
	"github.com/Meridian-Car-Rental/service-backoffice/pkg/kafka"
)

// cloneBooking copies an aggregate so stored state cannot be mutated through
// pointers the service still holds.
func cloneBooking(b *bookingDomain.Booking) *bookingDomain.Booking {
	entries := make([]schedule.Entry, len(b.Schedule()))
	copy(entries, b.Schedule())
	return bookingDomain.Reconstruct(
		b.ID(), b.BookingNumber(), b.Customer(), b.CarID(),
		b.TotalCents(), b.Currency(), b.Status(), b.SpecialRequest(),
		entries, b.CompletedAt(), b.CancelledAt(), b.Version(),
		b.CreatedAt(), b.UpdatedAt(),
	)
}

func cloneCar(c *carDomain.Car) *carDomain.Car {
	entries := make([]schedule.Entry, len(c.Schedule()))
	copy(entries, c.Schedule())
	return carDomain.Reconstruct(
		c.ID(), c.Model(), c.RegistrationNumber(), c.ImageURL(),
		c.PriceCentsPerDay(), c.CategoryID(), c.InvestorID(),
		entries, c.CreatedAt(), c.UpdatedAt(),
	)
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return cloneBooking(bk), nil
}

func (r *fakeBookingRepo) FindByNumber(_ context.Context, number string) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bk := range r.bookings {
		if bk.BookingNumber() == number {
			return cloneBooking(bk), nil
		}
	}
	return nil, domain.NewNotFoundError("Booking", number)
}

func (r *fakeBookingRepo) List(_ context.Context, status *bookingDomain.Status, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if status != nil && bk.Status() != *status {
			continue
		}
		result = append(result, cloneBooking(bk))
	}
	return result, int64(len(result)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[bk.Status().String()]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[bk.ID()] = cloneBooking(bk)
	return nil
}

// Update mirrors the optimistic locking of the real repository: the stored
// version must be exactly one behind the incoming aggregate.
func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[bk.ID()]
	if !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	if stored.Version() != bk.Version()-1 {
		return domain.NewConflictError("booking was modified concurrently")
	}
	r.bookings[bk.ID()] = cloneBooking(bk)
	return nil
}

func (r *fakeBookingRepo) snapshot() map[uuid.UUID]*bookingDomain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[uuid.UUID]*bookingDomain.Booking, len(r.bookings))
	for id, bk := range r.bookings {
		snap[id] = cloneBooking(bk)
	}
	return snap
}

func (r *fakeBookingRepo) restore(snap map[uuid.UUID]*bookingDomain.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = snap
}

type fakeCarRepo struct {
	mu          sync.Mutex
	cars        map[uuid.UUID]*carDomain.Car
	failBlock   error
	failUnblock error
}

func newFakeCarRepo() *fakeCarRepo {
	return &fakeCarRepo{cars: make(map[uuid.UUID]*carDomain.Car)}
}

func (r *fakeCarRepo) FindByID(_ context.Context, id uuid.UUID) (*carDomain.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cars[id]
	if !ok {
		return nil, domain.NewNotFoundError("Car", id.String())
	}
	return cloneCar(c), nil
}

func (r *fakeCarRepo) List(_ context.Context, categoryID *uuid.UUID, _, _ int) ([]*carDomain.Car, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*carDomain.Car
	for _, c := range r.cars {
		if categoryID != nil && c.CategoryID() != *categoryID {
			continue
		}
		result = append(result, cloneCar(c))
	}
	return result, int64(len(result)), nil
}

func (r *fakeCarRepo) FindByInvestorID(_ context.Context, investorID uuid.UUID) ([]*carDomain.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*carDomain.Car
	for _, c := range r.cars {
		if c.InvestorID() == investorID {
			result = append(result, cloneCar(c))
		}
	}
	return result, nil
}

func (r *fakeCarRepo) Save(_ context.Context, c *carDomain.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cars[c.ID()] = cloneCar(c)
	return nil
}

func (r *fakeCarRepo) Update(_ context.Context, c *carDomain.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cars[c.ID()]; !ok {
		return domain.NewNotFoundError("Car", c.ID().String())
	}
	r.cars[c.ID()] = cloneCar(c)
	return nil
}

func (r *fakeCarRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cars[id]; !ok {
		return domain.NewNotFoundError("Car", id.String())
	}
	delete(r.cars, id)
	return nil
}

func (r *fakeCarRepo) BlockDates(_ context.Context, carID uuid.UUID, bookingRef string, dates []schedule.Date) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failBlock != nil {
		return r.failBlock
	}
	c, ok := r.cars[carID]
	if !ok {
		return domain.NewNotFoundError("Car", carID.String())
	}
	mutated := cloneCar(c)
	mutated.Block(bookingRef, dates)
	r.cars[carID] = mutated
	return nil
}

func (r *fakeCarRepo) UnblockDates(_ context.Context, carID uuid.UUID, bookingRef string, dates []schedule.Date) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUnblock != nil {
		return r.failUnblock
	}
	c, ok := r.cars[carID]
	if !ok {
		return domain.NewNotFoundError("Car", carID.String())
	}
	mutated := cloneCar(c)
	mutated.Unblock(bookingRef, dates)
	r.cars[carID] = mutated
	return nil
}

func (r *fakeCarRepo) snapshot() map[uuid.UUID]*carDomain.Car {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[uuid.UUID]*carDomain.Car, len(r.cars))
	for id, c := range r.cars {
		snap[id] = cloneCar(c)
	}
	return snap
}

func (r *fakeCarRepo) restore(snap map[uuid.UUID]*carDomain.Car) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cars = snap
}

// fakeUnitOfWork serializes transactions and rolls both stores back to their
// pre-transaction snapshots when fn fails.
type fakeUnitOfWork struct {
	mu       sync.Mutex
	bookings *fakeBookingRepo
	cars     *fakeCarRepo
}

func (u *fakeUnitOfWork) RunInTransaction(_ context.Context, fn func(s Stores) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	bookingSnap := u.bookings.snapshot()
	carSnap := u.cars.snapshot()

	if err := fn(Stores{Bookings: u.bookings, Cars: u.cars}); err != nil {
		u.bookings.restore(bookingSnap)
		u.cars.restore(carSnap)
		return err
	}
	return nil
}

// fakePublisher records every published event.
type fakePublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
}

func (p *fakePublisher) PublishEvent(_ context.Context, _ string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) published() []kafka.CloudEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]kafka.CloudEvent(nil), p.events...)
}

func (p *fakePublisher) lastEventType() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return ""
	}
	return p.events[len(p.events)-1].Type
}
