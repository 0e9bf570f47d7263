package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is the aggregate root for a subscriber: it owns its profile and
// vehicles and holds the owning side of the package subscription relation.
type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	// Version backs the optimistic-locking protocol. It starts at 0, is
	// bumped by exactly 1 on every successful update and is never taken
	// from a request body.
	Version int64 `gorm:"not null;default:0" json:"version"`

	FirstName string `gorm:"size:100;not null" json:"firstName"`
	LastName  string `gorm:"size:100;not null" json:"lastName"`
	Email     string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone     string `gorm:"size:20" json:"phone,omitempty"`

	Profile  *CustomerProfile `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	Vehicles []Vehicle        `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
	Packages []ServicePackage `gorm:"many2many:customer_packages" json:"-"`

	CreatedAt time.Time `json:"createdDate"`
	UpdatedAt time.Time `json:"updatedDate"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// FullName renders "first last", falling back to whichever part is present,
// or "Unknown" when both are blank.
func (c *Customer) FullName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	case c.LastName != "":
		return c.LastName
	default:
		return "Unknown"
	}
}
