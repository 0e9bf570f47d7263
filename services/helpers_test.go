package services

import (
	"context"
	"testing"

	"fleetcare-backend/logger"
	"fleetcare-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database and migrates the full schema.
// Each test gets its own database so tests stay independent.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.CustomerProfile{},
		&models.Vehicle{},
		&models.ServicePackage{},
	))
	return db
}

func newCustomerService(t *testing.T) (*CustomerService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewCustomerService(db, logger.NewNop()), db
}

func newVehicleService(t *testing.T) (*VehicleService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewVehicleService(db, logger.NewNop()), db
}

func newPackageService(t *testing.T) (*PackageService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewPackageService(db, logger.NewNop()), db
}

func mustCreateCustomer(t *testing.T, svc *CustomerService, first, last, email string) *models.Customer {
	t.Helper()
	customer, err := svc.Create(context.Background(), CustomerRequest{
		FirstName: first,
		LastName:  last,
		Email:     email,
	})
	require.NoError(t, err)
	return customer
}

func versionOf(v int64) *int64 { return &v }
