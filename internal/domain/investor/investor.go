package investor

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain"
)

// Investor is a car owner who placed one or more cars with the rental fleet.
type Investor struct {
	id         uuid.UUID
	fullName   string
	email      string
	phone      string
	nationalID string
	createdAt  time.Time
	updatedAt  time.Time
}

// NewInvestor creates a new Investor.
func NewInvestor(fullName, email, phone, nationalID string) (*Investor, error) {
	if fullName == "" {
		return nil, domain.NewValidationError("investor full name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid investor email: %s", email))
	}
	now := time.Now().UTC()
	return &Investor{
		id:         uuid.New(),
		fullName:   fullName,
		email:      email,
		phone:      phone,
		nationalID: nationalID,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// Reconstruct rebuilds an Investor from persistence data.
func Reconstruct(id uuid.UUID, fullName, email, phone, nationalID string, createdAt, updatedAt time.Time) *Investor {
	return &Investor{
		id:         id,
		fullName:   fullName,
		email:      email,
		phone:      phone,
		nationalID: nationalID,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (i *Investor) ID() uuid.UUID        { return i.id }
func (i *Investor) FullName() string     { return i.fullName }
func (i *Investor) Email() string        { return i.email }
func (i *Investor) Phone() string        { return i.phone }
func (i *Investor) NationalID() string   { return i.nationalID }
func (i *Investor) CreatedAt() time.Time { return i.createdAt }
func (i *Investor) UpdatedAt() time.Time { return i.updatedAt }

// UpdateDetails replaces the investor's contact details.
func (i *Investor) UpdateDetails(fullName, email, phone, nationalID string) error {
	if fullName == "" {
		return domain.NewValidationError("investor full name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.NewValidationError(fmt.Sprintf("invalid investor email: %s", email))
	}
	i.fullName = fullName
	i.email = email
	i.phone = phone
	i.nationalID = nationalID
	i.updatedAt = time.Now().UTC()
	return nil
}
