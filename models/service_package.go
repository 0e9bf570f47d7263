package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PackageStatus is the two-value soft-delete state of a service package.
// Inactive packages stay in storage for subscription history and are only
// excluded from active listings.
type PackageStatus string

const (
	PackageStatusActive   PackageStatus = "ACTIVE"
	PackageStatusInactive PackageStatus = "INACTIVE"
)

// ServicePackage can be subscribed to by many customers. Unlike Customer it
// carries no version column: updates are last-write-wins.
type ServicePackage struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Name         string        `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description  string        `gorm:"type:text" json:"description,omitempty"`
	MonthlyPrice float64       `gorm:"type:decimal(10,2);not null" json:"monthlyPrice"`
	Status       PackageStatus `gorm:"type:varchar(20);not null;default:ACTIVE" json:"status"`

	Subscribers []Customer `gorm:"many2many:customer_packages" json:"-"`

	CreatedAt time.Time `json:"createdDate"`
	UpdatedAt time.Time `json:"updatedDate"`
}

func (p *ServicePackage) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PackageStatusActive
	}
	return
}

// Deactivate marks the package unavailable for new subscriptions without
// removing it.
func (p *ServicePackage) Deactivate() {
	p.Status = PackageStatusInactive
}

// Activate makes a previously deactivated package available again.
func (p *ServicePackage) Activate() {
	p.Status = PackageStatusActive
}

func (p *ServicePackage) IsActive() bool {
	return p.Status == PackageStatusActive
}
