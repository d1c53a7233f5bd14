package booking

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain"
	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain/schedule"
)

func validCustomer() Customer {
	return Customer{
		FullName:   "Amira Haddad",
		Email:      "amira@example.com",
		Phone:      "+971501234567",
		NationalID: "784-1987-1234567-1",
	}
}

func mustDates(t *testing.T, raw ...string) []schedule.Date {
	t.Helper()
	dates := make([]schedule.Date, len(raw))
	for i, r := range raw {
		d, err := schedule.ParseDate(r)
		require.NoError(t, err)
		dates[i] = d
	}
	return dates
}

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	bk, err := NewBooking(validCustomer(), uuid.New(), 45000, "USD", "",
		mustDates(t, "2026-09-01", "2026-09-02", "2026-09-03"))
	require.NoError(t, err)
	return bk
}

func TestNewBooking(t *testing.T) {
	carID := uuid.New()
	bk, err := NewBooking(validCustomer(), carID, 45000, "USD", "child seat",
		mustDates(t, "2026-09-01", "2026-09-02"))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, bk.Status())
	assert.Equal(t, carID, bk.CarID())
	assert.Equal(t, int64(45000), bk.TotalCents())
	assert.Equal(t, "child seat", bk.SpecialRequest())
	assert.Equal(t, int64(1), bk.Version())
	assert.Nil(t, bk.CompletedAt())
	assert.Nil(t, bk.CancelledAt())
	assert.Regexp(t, regexp.MustCompile(`^BK-[A-HJ-NP-Z2-9]{6}$`), bk.BookingNumber())

	require.Len(t, bk.Schedule(), 1)
	assert.Equal(t, schedule.AvailabilityOpen, bk.Schedule()[0].Availability)
	assert.Len(t, bk.Schedule()[0].Dates, 2)
}

func TestNewBooking_Validation(t *testing.T) {
	carID := uuid.New()
	dates := mustDates(t, "2026-09-01")

	tests := []struct {
		name string
		fn   func() (*Booking, error)
	}{
		{"missing name", func() (*Booking, error) {
			c := validCustomer()
			c.FullName = ""
			return NewBooking(c, carID, 45000, "USD", "", dates)
		}},
		{"invalid email", func() (*Booking, error) {
			c := validCustomer()
			c.Email = "not-an-email"
			return NewBooking(c, carID, 45000, "USD", "", dates)
		}},
		{"missing phone", func() (*Booking, error) {
			c := validCustomer()
			c.Phone = ""
			return NewBooking(c, carID, 45000, "USD", "", dates)
		}},
		{"nil car", func() (*Booking, error) {
			return NewBooking(validCustomer(), uuid.Nil, 45000, "USD", "", dates)
		}},
		{"non-positive total", func() (*Booking, error) {
			return NewBooking(validCustomer(), carID, 0, "USD", "", dates)
		}},
		{"no dates", func() (*Booking, error) {
			return NewBooking(validCustomer(), carID, 45000, "USD", "", nil)
		}},
		{"duplicate dates", func() (*Booking, error) {
			return NewBooking(validCustomer(), carID, 45000, "USD", "",
				mustDates(t, "2026-09-01", "2026-09-01"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			require.Error(t, err)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestBooking_Confirm(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.Confirm())
	assert.Equal(t, StatusConfirmed, bk.Status())

	// Re-confirming is a no-op, not an error.
	require.NoError(t, bk.Confirm())
	assert.Equal(t, StatusConfirmed, bk.Status())
}

func TestBooking_Complete(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Confirm())

	require.NoError(t, bk.Complete())
	assert.Equal(t, StatusCompleted, bk.Status())
	require.NotNil(t, bk.CompletedAt())
	assert.Nil(t, bk.CancelledAt())
}

func TestBooking_CompleteFromPending(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.Complete())
	assert.Equal(t, StatusCompleted, bk.Status())
}

func TestBooking_Cancel(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.Cancel())
	assert.Equal(t, StatusCancelled, bk.Status())
	require.NotNil(t, bk.CancelledAt())
	assert.Nil(t, bk.CompletedAt())
}

func TestBooking_TerminalTransitionsRejected(t *testing.T) {
	completed := newTestBooking(t)
	require.NoError(t, completed.Complete())

	err := completed.Cancel()
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))

	err = completed.Confirm()
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))

	cancelled := newTestBooking(t)
	require.NoError(t, cancelled.Cancel())

	err = cancelled.Complete()
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
	assert.Equal(t, StatusCancelled, cancelled.Status())
}

func TestBooking_OccupiedDates(t *testing.T) {
	bk := newTestBooking(t)

	dates := bk.OccupiedDates()
	require.Len(t, dates, 3)
	assert.Equal(t, "2026-09-01", dates[0].String())
	assert.Equal(t, "2026-09-02", dates[1].String())
	assert.Equal(t, "2026-09-03", dates[2].String())
}

func TestBooking_OccupiedDates_DeduplicatesAcrossEntries(t *testing.T) {
	entries := []schedule.Entry{
		{Dates: mustDates(t, "2026-09-01", "2026-09-02"), Availability: schedule.AvailabilityOpen},
		{Dates: mustDates(t, "2026-09-02", "2026-09-03"), Availability: schedule.AvailabilityUnknown},
	}
	bk := Reconstruct(uuid.New(), "BK-TEST01", validCustomer(), uuid.New(),
		45000, "USD", StatusPending, "", entries, nil, nil, 1,
		entries[0].Dates[0].Time(), entries[0].Dates[0].Time())

	dates := bk.OccupiedDates()
	require.Len(t, dates, 3)
}

func TestBooking_IncrementVersion(t *testing.T) {
	bk := newTestBooking(t)
	require.Equal(t, int64(1), bk.Version())

	bk.IncrementVersion()
	assert.Equal(t, int64(2), bk.Version())
}
