package services

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VehicleFilter carries the optional vehicle search criteria. Every set field
// narrows the result set; unset fields contribute nothing. All criteria are
// combined conjunctively.
type VehicleFilter struct {
	CustomerID    *uuid.UUID
	VIN           string
	Make          string
	Model         string
	MinYear       *int
	MaxYear       *int
	CustomerEmail string
	CustomerName  string
}

type vehicleScope = func(*gorm.DB) *gorm.DB

func noFilter(db *gorm.DB) *gorm.DB { return db }

func byCustomerID(id *uuid.UUID) vehicleScope {
	if id == nil {
		return noFilter
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("vehicles.customer_id = ?", *id)
	}
}

// Exact match, case-insensitive on both sides.
func byVIN(vin string) vehicleScope {
	vin = strings.TrimSpace(vin)
	if vin == "" {
		return noFilter
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("UPPER(vehicles.vin) = ?", strings.ToUpper(vin))
	}
}

func byMake(make string) vehicleScope {
	return containsScope("vehicles.make", make)
}

func byModel(model string) vehicleScope {
	return containsScope("vehicles.model", model)
}

// byYearRange degrades gracefully: >= with only a minimum, <= with only a
// maximum, a closed interval with both, a no-op with neither.
func byYearRange(minYear, maxYear *int) vehicleScope {
	switch {
	case minYear != nil && maxYear != nil:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("vehicles.year BETWEEN ? AND ?", *minYear, *maxYear)
		}
	case minYear != nil:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("vehicles.year >= ?", *minYear)
		}
	case maxYear != nil:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("vehicles.year <= ?", *maxYear)
		}
	default:
		return noFilter
	}
}

func byCustomerEmail(email string) vehicleScope {
	return containsScope(`"Customer".email`, email)
}

// Matches either name part of the owning customer.
func byCustomerName(name string) vehicleScope {
	name = strings.TrimSpace(name)
	if name == "" {
		return noFilter
	}
	term := likeTerm(name)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(`UPPER("Customer".first_name) LIKE ? OR UPPER("Customer".last_name) LIKE ?`, term, term)
	}
}

// containsScope builds a case-insensitive substring predicate for one column.
func containsScope(column, value string) vehicleScope {
	value = strings.TrimSpace(value)
	if value == "" {
		return noFilter
	}
	term := likeTerm(value)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("UPPER("+column+") LIKE ?", term)
	}
}

func likeTerm(value string) string {
	return "%" + strings.ToUpper(value) + "%"
}

// Scopes composes one predicate per criterion; the caller applies them all to
// a single query.
func (f VehicleFilter) Scopes() []vehicleScope {
	return []vehicleScope{
		byCustomerID(f.CustomerID),
		byVIN(f.VIN),
		byMake(f.Make),
		byModel(f.Model),
		byYearRange(f.MinYear, f.MaxYear),
		byCustomerEmail(f.CustomerEmail),
		byCustomerName(f.CustomerName),
	}
}
