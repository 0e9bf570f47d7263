package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle belongs to exactly one customer and is destroyed with it.
type Vehicle struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customerId"`

	VIN   string `gorm:"size:17;not null;uniqueIndex" json:"vin"`
	Make  string `gorm:"size:50;not null" json:"make"`
	Model string `gorm:"size:50;not null" json:"model"`
	Year  int    `gorm:"not null" json:"year"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	CreatedAt time.Time `json:"createdDate"`
	UpdatedAt time.Time `json:"updatedDate"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
