package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactMethod string

const (
	ContactMethodEmail ContactMethod = "EMAIL"
	ContactMethodPhone ContactMethod = "PHONE"
	ContactMethodSMS   ContactMethod = "SMS"
)

func (m ContactMethod) Valid() bool {
	switch m {
	case ContactMethodEmail, ContactMethodPhone, ContactMethodSMS:
		return true
	}
	return false
}

// CustomerProfile holds the optional profile data owned by exactly one
// customer. Its lifetime is tied to the owner: it is created and destroyed
// with the customer and never exists on its own.
type CustomerProfile struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"-"`

	Address                string        `gorm:"type:text" json:"address,omitempty"`
	DateOfBirth            *time.Time    `json:"dateOfBirth,omitempty"`
	PreferredContactMethod ContactMethod `gorm:"type:varchar(20);default:EMAIL" json:"preferredContactMethod,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (p *CustomerProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
